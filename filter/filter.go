package filter

import (
	"context"

	"github.com/rushteam/dinekit/core"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
//
// 过滤发生在打分之前：被过滤的菜不会"打分后清零"，
// 而是彻底离开候选集，无论分数多高都不会出现在任何排名输出里。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
