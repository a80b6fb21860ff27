package filter

import (
	"context"

	"github.com/rushteam/dinekit/core"
	"github.com/rushteam/dinekit/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的规则过滤器，表达式返回 true 时该菜被过滤。
//
// 示例：
//   - `dish.dish_type == "beverage"` → 过滤全部饮品
//   - `item.eatery == "West Annex" && rctx.menu_date < "2025-04-01"` → 临时下架
//   - `"contains-nuts" in dish.dietary_attrs` → 粗粒度坚果过滤（矛盾表之外的兜底）
type RuleFilter struct {
	// Expr CEL 表达式；空表达式不过滤任何菜
	Expr string
}

var _ Filter = (*RuleFilter)(nil)

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}
	matched, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		// 表达式错误不拦截候选，交给 FilterNode 记录
		return false, err
	}
	return matched, nil
}
