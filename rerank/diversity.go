package rerank

import (
	"context"

	"github.com/rushteam/dinekit/core"
	"github.com/rushteam/dinekit/pipeline"
)

// Diversity 是菜系多样性重排节点：同一食堂内每个菜系只保留分数最高的
// MaxPerCuisine 道菜，避免一家食堂的候选被单一菜系刷满。
//
// 输入应已按分数降序（排序节点之后使用）。cuisine_type 为 "other"
// 或 Dish 缺失的菜不受约束。
type Diversity struct {
	// MaxPerCuisine 每个 (食堂, 菜系) 保留的菜数；<= 0 时取 2
	MaxPerCuisine int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	max := n.MaxPerCuisine
	if max <= 0 {
		max = 2
	}

	counts := make(map[string]int, len(items))
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Dish == nil || it.Dish.CuisineType == "" || it.Dish.CuisineType == core.CuisineOther {
			out = append(out, it)
			continue
		}
		key := it.Eatery + "|" + it.Dish.CuisineType
		if counts[key] >= max {
			continue
		}
		counts[key]++
		out = append(out, it)
	}
	return out, nil
}
