package filter

import (
	"context"
	"encoding/json"

	"github.com/rushteam/dinekit/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
// 黑名单以 JSON 字符串数组落盘，运营侧直接写 KV 即可生效。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

var _ DenylistStore = (*StoreAdapter)(nil)

// GetDenylist 从 Store 读取黑名单。
func (a *StoreAdapter) GetDenylist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
