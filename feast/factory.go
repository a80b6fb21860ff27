package feast

import (
	"context"
	"strconv"
	"strings"
)

// DefaultClientFactory 是默认的客户端工厂，基于官方 SDK 的 gRPC 实现。
type DefaultClientFactory struct{}

var _ ClientFactory = (*DefaultClientFactory)(nil)

// NewClient 根据端点创建客户端（实现 ClientFactory 接口）。
func (f *DefaultClientFactory) NewClient(ctx context.Context, endpoint string, project string, opts ...ClientOption) (Client, error) {
	host, port := parseEndpoint(endpoint)
	return NewGrpcClient(host, port, project, opts...)
}

// NewClient 统一的客户端创建函数。
//
// 示例：
//
//	client, err := feast.NewClient("localhost:6565", "dinekit")
func NewClient(endpoint, project string, opts ...ClientOption) (Client, error) {
	factory := &DefaultClientFactory{}
	return factory.NewClient(context.Background(), endpoint, project, opts...)
}

// parseEndpoint 解析端点地址，返回 host 和 port
func parseEndpoint(endpoint string) (string, int) {
	endpoint = strings.TrimPrefix(endpoint, "grpc://")

	parts := strings.Split(endpoint, ":")
	if len(parts) == 2 {
		port, err := strconv.Atoi(parts[1])
		if err == nil {
			return parts[0], port
		}
	}
	return endpoint, 0
}
