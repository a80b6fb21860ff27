// Package feast 是 Feast Feature Store 的菜品特征客户端。
//
// 离线管线可以把已解析过的菜品属性与配料向量物化到 Feast 在线存储；
// run 时优先读取预计算特征，未命中的菜品再走 LLM 抽取路径。
//
// 参考：https://github.com/feast-dev/feast
package feast

import (
	"context"
	"time"

	"github.com/rushteam/dinekit/core"
)

// 在线特征命名约定（特征视图 dish_features，实体 dish_key）。
// 列表/向量类特征以 JSON 字符串物化，读取侧解码。
const (
	FeatureIngredients    = "dish_features:ingredients_json"
	FeatureFlavorProfiles = "dish_features:flavor_profiles_json"
	FeatureCookingMethods = "dish_features:cooking_methods_json"
	FeatureCuisineType    = "dish_features:cuisine_type"
	FeatureDietaryAttrs   = "dish_features:dietary_attrs_json"
	FeatureDishType       = "dish_features:dish_type"
	FeatureEmbedding      = "dish_features:embedding_json"

	// EntityDishKey 是实体列名，取值为 normalized_key
	EntityDishKey = "dish_key"
)

// DishFeatures 是单个菜品的预计算特征。
// Embedding 可能为 nil（离线管线尚未物化向量）。
type DishFeatures struct {
	Attributes core.DishAttributes
	Embedding  []float64
}

// Client 是菜品特征库的客户端接口（领域层定义，基础设施层实现）。
type Client interface {
	// GetDishFeatures 按 normalized_key 批量读取预计算特征。
	// 未命中的 key 不在结果里（由调用方降级到 LLM 抽取路径）。
	GetDishFeatures(ctx context.Context, dishKeys []string) (map[string]DishFeatures, error)

	// Close 关闭客户端连接
	Close() error
}

// ClientFactory 是客户端工厂接口（用于依赖注入）。
type ClientFactory interface {
	NewClient(ctx context.Context, endpoint string, project string, opts ...ClientOption) (Client, error)
}

// ClientOption 客户端配置选项
type ClientOption func(*ClientConfig)

// ClientConfig 客户端配置
type ClientConfig struct {
	// Endpoint 服务端点
	Endpoint string

	// Project 项目名称
	Project string

	// Timeout 超时时间
	Timeout time.Duration

	// Auth 认证信息
	Auth *AuthConfig
}

// AuthConfig 认证配置
type AuthConfig struct {
	// Type 认证类型：static（gRPC 静态 Token）
	Type string

	// Token 静态 Token
	Token string
}

// WithTimeout 配置选项：设置超时时间
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithAuth 配置选项：设置认证信息
func WithAuth(auth *AuthConfig) ClientOption {
	return func(c *ClientConfig) {
		c.Auth = auth
	}
}
