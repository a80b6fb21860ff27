package catalog

import (
	"context"
	"encoding/json"

	"github.com/rushteam/dinekit/core"
)

// menuKeyPrefix 是当日菜单登记表在 KV 存储中的键前缀。
const menuKeyPrefix = "menu:"

// MenuRegistry 维护"哪些菜出现在哪天哪个食堂哪个餐段"的登记表。
// 评分链接靠它把 (日期, 菜) 回溯到具体的食堂与餐段。
//
// 存储形态为 hash：key "menu:<date>"，field 为 "<dish>|<eatery>|<bucket>"，
// value 为 MenuEntry JSON。同一道菜在多个食堂或多个餐段出现时各占一条。
type MenuRegistry struct {
	store core.KeyValueStore
}

// NewMenuRegistry 创建登记表。
func NewMenuRegistry(store core.KeyValueStore) *MenuRegistry {
	return &MenuRegistry{store: store}
}

// entryField 生成 hash field："<dish>|<eatery>|<bucket>"。
func entryField(dishKey, eatery, bucket string) string {
	return dishKey + "|" + eatery + "|" + bucket
}

// Register 登记一条 (date, dish, eatery, bucket)。重复登记覆盖旧值，幂等。
func (r *MenuRegistry) Register(ctx context.Context, entry core.MenuEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, "catalog: encode menu entry: "+err.Error())
	}
	field := entryField(entry.DishKey, entry.Eatery, entry.Bucket)
	return r.store.HSet(ctx, menuKeyPrefix+entry.MenuDate, field, raw)
}

// Entries 返回某天登记过的全部条目。没有登记时返回空 slice。
func (r *MenuRegistry) Entries(ctx context.Context, date string) ([]core.MenuEntry, error) {
	raw, err := r.store.HGetAll(ctx, menuKeyPrefix+date)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	entries := make([]core.MenuEntry, 0, len(raw))
	for _, v := range raw {
		var e core.MenuEntry
		if err := json.Unmarshal(v, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Registered 判断某天某 (菜, 食堂, 餐段) 是否已登记。
func (r *MenuRegistry) Registered(ctx context.Context, date, dishKey, eatery, bucket string) (bool, error) {
	_, err := r.store.HGet(ctx, menuKeyPrefix+date, entryField(dishKey, eatery, bucket))
	if err == nil {
		return true, nil
	}
	if core.IsStoreNotFound(err) {
		return false, nil
	}
	return false, err
}
