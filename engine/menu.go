package engine

import (
	"context"
	"fmt"

	"github.com/rushteam/dinekit/catalog"
	"github.com/rushteam/dinekit/core"
)

// menuDishes 是当日菜单的目录解析结果。
type menuDishes struct {
	// all 去重后的全部菜品（key -> 目录实体，解析后持同一指针）
	all map[string]*core.Dish

	// fresh 本次 run 首次出现、待属性/向量解析的菜
	fresh []*core.Dish
}

// candidates 返回全部菜品的列表（偏好向量的 base_vector 匹配用）。
func (m *menuDishes) candidates() []*core.Dish {
	out := make([]*core.Dish, 0, len(m.all))
	for _, d := range m.all {
		out = append(out, d)
	}
	return out
}

// resolveMenu 把当日菜单整体过一遍目录：
// 每个去重后的菜名解析一次，新菜收集起来交给属性/向量解析；
// 同时向菜单登记表写入 (日期, 菜, 食堂, bucket) 记录（评分链接依赖）。
// 目录或登记写入失败让整个 run 失败，等下一次调度重试；已写入的部分是幂等的。
func (e *Engine) resolveMenu(ctx context.Context, menu *core.Menu) (*menuDishes, error) {
	out := &menuDishes{all: make(map[string]*core.Dish)}
	for _, bucket := range core.MealBuckets {
		for _, slice := range menu.Buckets[bucket] {
			for _, raw := range slice.Items {
				key := catalog.NormalizeDishName(raw)
				if key == "" {
					continue
				}
				if _, ok := out.all[key]; !ok {
					dish, isNew, err := e.catalog.Resolve(ctx, raw)
					if err != nil {
						return nil, fmt.Errorf("resolve %q: %w", raw, err)
					}
					out.all[key] = dish
					if isNew {
						out.fresh = append(out.fresh, dish)
					}
				}
				if e.registry != nil {
					entry := core.MenuEntry{
						MenuDate: menu.Date,
						DishKey:  key,
						Eatery:   slice.EateryName,
						Bucket:   bucket,
					}
					if err := e.registry.Register(ctx, entry); err != nil {
						return nil, fmt.Errorf("register menu entry %q: %w", key, err)
					}
				}
			}
		}
	}
	return out, nil
}
