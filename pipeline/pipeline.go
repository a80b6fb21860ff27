package pipeline

import (
	"context"

	"github.com/rushteam/dinekit/core"
)

// Pipeline 是打分链路的核心抽象：把推荐逻辑拆成可组合的 Node 链。
// 每个 bucket 一条链：召回当日菜单 -> 饮食过滤 -> 混合打分 -> 食堂聚合。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
