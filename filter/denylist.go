package filter

import (
	"context"

	"github.com/rushteam/dinekit/core"
)

// DenylistFilter 是食堂/菜品黑名单过滤器。
// 运营可以临时下架某个食堂（闭馆、卫生事件）或某道菜。
type DenylistFilter struct {
	// Eateries 内存中的食堂黑名单
	Eateries []string

	// DishKeys 内存中的菜品黑名单（normalized_key）
	DishKeys []string

	// Store 用于从存储中读取黑名单（可选）
	Store DenylistStore

	// EateryKey / DishKey 是 Store 中两份黑名单的 key（可选）
	EateryKey string
	DishKey   string
}

// DenylistStore 是黑名单存储接口。
type DenylistStore interface {
	// GetDenylist 获取黑名单条目列表
	GetDenylist(ctx context.Context, key string) ([]string, error)
}

// NewDenylistFilter 创建一个黑名单过滤器。
func NewDenylistFilter(eateries, dishKeys []string, storeAdapter *StoreAdapter, eateryKey, dishKey string) *DenylistFilter {
	var store DenylistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &DenylistFilter{
		Eateries:  eateries,
		DishKeys:  dishKeys,
		Store:     store,
		EateryKey: eateryKey,
		DishKey:   dishKey,
	}
}

var _ Filter = (*DenylistFilter)(nil)

func (f *DenylistFilter) Name() string {
	return "filter.denylist"
}

func (f *DenylistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	// 从内存列表检查
	for _, eatery := range f.Eateries {
		if item.Eatery == eatery {
			return true, nil
		}
	}
	for _, key := range f.DishKeys {
		if item.ID == key {
			return true, nil
		}
	}

	// 从 Store 检查
	if f.Store != nil {
		if f.EateryKey != "" {
			if denied, err := f.Store.GetDenylist(ctx, f.EateryKey); err == nil {
				for _, eatery := range denied {
					if item.Eatery == eatery {
						return true, nil
					}
				}
			}
		}
		if f.DishKey != "" {
			if denied, err := f.Store.GetDenylist(ctx, f.DishKey); err == nil {
				for _, key := range denied {
					if item.ID == key {
						return true, nil
					}
				}
			}
		}
	}

	return false, nil
}
