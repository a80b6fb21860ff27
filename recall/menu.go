package recall

import (
	"context"

	"github.com/rushteam/dinekit/catalog"
	"github.com/rushteam/dinekit/core"
)

// MenuSource 把某个 bucket 的当日菜单展开为候选 Item 集合。
//
// 每个 (菜品, 食堂) 出现产出一个 Item，并从目录关联已解析的 Dish 实体。
// 目录未命中的菜（解析整体失败的极端情况）仍然产出 Item，但 Dish 为 nil，
// 由打分节点按"无向量无属性"处理（贡献 0 分）。
type MenuSource struct {
	Menu    *core.Menu
	Bucket  string
	Catalog core.CatalogStore
}

var _ Source = (*MenuSource)(nil)

func (s *MenuSource) Name() string { return "recall.menu." + s.Bucket }

func (s *MenuSource) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if s.Menu == nil {
		return nil, nil
	}
	slices := s.Menu.Buckets[s.Bucket]
	if len(slices) == 0 {
		return nil, nil
	}

	// 先收集 key 批量查目录，减少往返
	keys := make([]string, 0, 64)
	seen := make(map[string]bool, 64)
	for _, ms := range slices {
		for _, item := range ms.Items {
			key := catalog.NormalizeDishName(item)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, key)
		}
	}
	dishes, err := s.Catalog.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	var out []*core.Item
	for _, ms := range slices {
		for _, raw := range ms.Items {
			key := catalog.NormalizeDishName(raw)
			if key == "" {
				continue
			}
			it := core.NewItem(key)
			it.Dish = dishes[key]
			it.Eatery = ms.EateryName
			it.Bucket = s.Bucket
			it.Meta["source_name"] = raw
			out = append(out, it)
		}
	}
	return out, nil
}
