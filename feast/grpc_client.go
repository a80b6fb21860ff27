package feast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"
)

// dishFeatureNames 是一次请求读取的全部菜品特征列。
var dishFeatureNames = []string{
	FeatureIngredients,
	FeatureFlavorProfiles,
	FeatureCookingMethods,
	FeatureCuisineType,
	FeatureDietaryAttrs,
	FeatureDishType,
	FeatureEmbedding,
}

// GrpcClient 是基于官方 Feast Go SDK 的 gRPC 客户端实现。
//
// 设计原则（DDD）：
//   - 领域层：Client 接口（client.go）保持不变
//   - 基础设施层：GrpcClient 实现 Client 接口
//
// 工程特征：
//   - 实时性：优秀（gRPC 低延迟、连接复用）
//   - 批量读取：一次往返取整个 run 的新菜特征
type GrpcClient struct {
	client *feastsdk.GrpcClient

	// Project 项目名称
	Project string

	// Endpoint 服务端点（用于信息展示）
	Endpoint string
}

// NewGrpcClient 创建一个基于官方 SDK 的 Feast gRPC 客户端。
// port 为 0 时使用默认 gRPC 端口 6565。
func NewGrpcClient(host string, port int, project string, opts ...ClientOption) (*GrpcClient, error) {
	if port == 0 {
		port = 6565
	}

	config := &ClientConfig{
		Endpoint: fmt.Sprintf("%s:%d", host, port),
		Project:  project,
		Timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(config)
	}

	var client *feastsdk.GrpcClient
	var err error
	if config.Auth != nil && config.Auth.Type == "static" && config.Auth.Token != "" {
		credential := feastsdk.NewStaticCredential(config.Auth.Token)
		security := feastsdk.SecurityConfig{
			EnableTLS:  false,
			Credential: credential,
		}
		client, err = feastsdk.NewSecureGrpcClient(host, port, security)
	} else {
		client, err = feastsdk.NewGrpcClient(host, port)
	}
	if err != nil {
		return nil, fmt.Errorf("feast: create grpc client: %w", err)
	}

	return &GrpcClient{
		client:   client,
		Project:  project,
		Endpoint: config.Endpoint,
	}, nil
}

var _ Client = (*GrpcClient)(nil)

// GetDishFeatures 按 normalized_key 批量读取预计算特征（实现 Client 接口）。
func (c *GrpcClient) GetDishFeatures(ctx context.Context, dishKeys []string) (map[string]DishFeatures, error) {
	if len(dishKeys) == 0 {
		return map[string]DishFeatures{}, nil
	}
	if c.Project == "" {
		return nil, fmt.Errorf("feast: project is required")
	}

	entityRows := make([]feastsdk.Row, len(dishKeys))
	for i, key := range dishKeys {
		entityRows[i] = feastsdk.Row{EntityDishKey: feastsdk.StrVal(key)}
	}

	sdkReq := &feastsdk.OnlineFeaturesRequest{
		Features: dishFeatureNames,
		Entities: entityRows,
		Project:  c.Project,
	}
	sdkResp, err := c.client.GetOnlineFeatures(ctx, sdkReq)
	if err != nil {
		return nil, fmt.Errorf("feast: get online features: %w", err)
	}

	rows := sdkResp.Rows()
	if len(rows) != len(dishKeys) {
		return nil, fmt.Errorf("feast: response row count mismatch: expected %d, got %d", len(dishKeys), len(rows))
	}

	result := make(map[string]DishFeatures, len(rows))
	for i, row := range rows {
		features, ok := decodeDishRow(row)
		if !ok {
			// 特征库未命中该菜，由调用方走 LLM 抽取路径
			continue
		}
		result[dishKeys[i]] = features
	}
	return result, nil
}

// Close 关闭客户端连接（实现 Client 接口）。
// 官方 SDK 没有显式的 Close 方法，连接由 gRPC 库管理。
func (c *GrpcClient) Close() error {
	c.client = nil
	return nil
}

// decodeDishRow 将一个 Feast 响应行解码为 DishFeatures。
// 至少要有 flavor_profiles 列才算命中（离线管线总是成对物化属性列）。
func decodeDishRow(row feastsdk.Row) (DishFeatures, bool) {
	var out DishFeatures

	flavors, ok := stringList(row, FeatureFlavorProfiles)
	if !ok {
		return out, false
	}
	out.Attributes.FlavorProfiles = flavors
	out.Attributes.Ingredients, _ = stringList(row, FeatureIngredients)
	out.Attributes.CookingMethods, _ = stringList(row, FeatureCookingMethods)
	out.Attributes.DietaryAttrs, _ = stringList(row, FeatureDietaryAttrs)
	out.Attributes.CuisineType = stringValue(row, FeatureCuisineType)
	out.Attributes.DishType = stringValue(row, FeatureDishType)

	if raw := stringValue(row, FeatureEmbedding); raw != "" {
		var vec []float64
		if err := json.Unmarshal([]byte(raw), &vec); err == nil {
			out.Embedding = vec
		}
	}
	return out, true
}

// stringValue 提取行内单个字符串特征；缺失或类型不符时返回空串。
func stringValue(row feastsdk.Row, feature string) string {
	var val *feasttypes.Value
	val, ok := row[feature]
	if !ok || val == nil {
		return ""
	}
	return val.GetStringVal()
}

// stringList 提取以 JSON 字符串物化的字符串列表特征。
func stringList(row feastsdk.Row, feature string) ([]string, bool) {
	raw := stringValue(row, feature)
	if raw == "" {
		return nil, false
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false
	}
	return out, true
}
