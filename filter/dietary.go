package filter

import (
	"context"

	"github.com/rushteam/dinekit/core"
)

// Contradictions 是饮食限制与菜品标签的固定矛盾表，
// 与标签词表（resolver.ValidDietary）一起维护。
//
// 语义：用户限制 r 与菜品标签 a 矛盾当且仅当 a ∈ Contradictions[r]。
// 限制与标签同名的 contains-* 项表示过敏类限制（"我不能吃坚果"）。
var Contradictions = map[string][]string{
	"vegetarian":         {"contains-meat", "contains-shellfish"},
	"vegan":              {"contains-meat", "contains-shellfish", "contains-dairy"},
	"gluten-free":        {"contains-gluten"},
	"dairy-free":         {"contains-dairy"},
	"halal":              {"contains-pork", "contains-alcohol"},
	"contains-nuts":      {"contains-nuts"},
	"contains-shellfish": {"contains-shellfish"},
}

// DietaryFilter 按用户饮食限制过滤菜品。
//
// 判定规则：
//   - dietary_attrs 为空的菜永远通过：缺数据语义是"未知"，不是"不合格"
//   - 非空时，任一标签与任一限制矛盾即不合格
type DietaryFilter struct{}

var _ Filter = (*DietaryFilter)(nil)

func (f *DietaryFilter) Name() string {
	return "filter.dietary"
}

func (f *DietaryFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.User == nil || len(rctx.User.DietaryRestrictions) == 0 {
		return false, nil
	}
	dish := item.Dish
	if dish == nil || len(dish.DietaryAttrs) == 0 {
		return false, nil
	}

	attrs := make(map[string]bool, len(dish.DietaryAttrs))
	for _, a := range dish.DietaryAttrs {
		attrs[a] = true
	}
	for _, restriction := range rctx.User.DietaryRestrictions {
		for _, contra := range Contradictions[restriction] {
			if attrs[contra] {
				return true, nil
			}
		}
	}
	return false, nil
}
