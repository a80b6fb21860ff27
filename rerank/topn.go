package rerank

import (
	"context"

	"github.com/rushteam/dinekit/core"
	"github.com/rushteam/dinekit/pipeline"
)

// TopNNode 是 Top-N 截断节点，排序后只保留前 N 个候选。
// 菜单很大的日子可以在聚合前先截断，减少聚合与展示的无效计算。
//
// N <= 0 或候选数不足 N 时不截断。
type TopNNode struct {
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
