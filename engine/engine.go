// Package engine 编排每日一次的离线推荐 run：
// 菜单目录化与属性解析一次、每用户偏好构建与打分并行、
// 无信号用户共享一份冷启动结果。
package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/dinekit/aggregate"
	"github.com/rushteam/dinekit/catalog"
	"github.com/rushteam/dinekit/coldstart"
	"github.com/rushteam/dinekit/core"
	"github.com/rushteam/dinekit/filter"
	"github.com/rushteam/dinekit/pipeline"
	"github.com/rushteam/dinekit/prefs"
	"github.com/rushteam/dinekit/rank"
	"github.com/rushteam/dinekit/recall"
	"github.com/rushteam/dinekit/resolver"
)

// DefaultMaxConcurrentUsers 每用户打分的默认并发上限。
// 用户之间完全独立，不读写彼此状态，并行是安全的。
const DefaultMaxConcurrentUsers = 8

// Engine 是每日 run 的编排器。
//
// 失败语义：
//   - 菜单解析（目录/登记表写入）失败 → run 失败，等下一次调度重试；
//     已解析的菜和已重算的向量都已落盘，重试不重做
//   - 属性/向量解析在 resolver 内部降级，不会让 run 失败
//   - 单个用户失败 → 记入 RunStats 跳过，绝不拖垮其他用户
type Engine struct {
	catalog    *catalog.Catalog
	resolver   *resolver.Resolver
	builder    *prefs.Builder
	coldstart  *coldstart.Resolver
	registry   *catalog.MenuRegistry
	aggregator *aggregate.Aggregator
	filters    []filter.Filter
	monitor    Monitor

	maxConcurrentUsers int
}

// Option 配置 Engine。
type Option func(*Engine)

// WithRegistry 启用当日菜单登记表（评分链接等下游功能依赖）。
func WithRegistry(registry *catalog.MenuRegistry) Option {
	return func(e *Engine) { e.registry = registry }
}

// WithFilters 追加饮食过滤之外的过滤器（黑名单、规则等）。
func WithFilters(filters ...filter.Filter) Option {
	return func(e *Engine) { e.filters = append(e.filters, filters...) }
}

// WithAggregator 替换默认聚合参数。
func WithAggregator(agg *aggregate.Aggregator) Option {
	return func(e *Engine) { e.aggregator = agg }
}

// WithMonitor 挂接 run 事件监控。
func WithMonitor(m Monitor) Option {
	return func(e *Engine) { e.monitor = m }
}

// WithMaxConcurrentUsers 设置每用户打分的并发上限。
func WithMaxConcurrentUsers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrentUsers = n
		}
	}
}

// NewEngine 创建 run 编排器。coldStart 可为 nil，此时无信号用户被跳过。
func NewEngine(
	cat *catalog.Catalog,
	res *resolver.Resolver,
	builder *prefs.Builder,
	coldStart *coldstart.Resolver,
	opts ...Option,
) *Engine {
	e := &Engine{
		catalog:            cat,
		resolver:           res,
		builder:            builder,
		coldstart:          coldStart,
		aggregator:         &aggregate.Aggregator{},
		maxConcurrentUsers: DefaultMaxConcurrentUsers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run 执行一次完整的当日推荐：返回每个用户的推荐与运行统计。
func (e *Engine) Run(ctx context.Context, menu *core.Menu, userIDs []string) (map[string]core.Recommendation, RunStats, error) {
	collector := &statsCollector{monitor: e.monitor}

	md, err := e.resolveMenu(ctx, menu)
	if err != nil {
		return nil, collector.snapshot(), err
	}
	collector.stats.MenuDishes = len(md.all)
	collector.stats.NewDishes = len(md.fresh)

	resolveStats, err := e.resolver.ResolveNew(ctx, md.fresh)
	collector.stats.Resolve = resolveStats
	if err != nil {
		return nil, collector.snapshot(), err
	}

	candidates := md.candidates()

	// 冷启动结果全 run 只算一次，所有无信号用户共享
	var (
		coldOnce sync.Once
		coldRec  core.Recommendation
		coldErr  error
	)
	sharedColdStart := func() (core.Recommendation, error) {
		coldOnce.Do(func() {
			if e.coldstart == nil {
				coldErr = core.NewDomainError(core.ModuleColdStart, core.ErrorCodeNotSupported, "coldstart: no service configured")
				return
			}
			coldRec, coldErr = e.coldstart.Resolve(ctx, menu)
		})
		return coldRec, coldErr
	}

	var (
		mu      sync.Mutex
		results = make(map[string]core.Recommendation, len(userIDs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrentUsers)

	for _, userID := range userIDs {
		uid := userID
		g.Go(func() error {
			rec, cold, err := e.recommendUser(gctx, menu, candidates, uid, sharedColdStart)
			if err != nil {
				collector.skipped(uid, err)
				return nil
			}
			mu.Lock()
			results[uid] = rec
			mu.Unlock()
			if cold {
				collector.coldStart(uid)
			} else {
				collector.scored(uid)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, collector.snapshot(), err
	}
	return results, collector.snapshot(), nil
}

// recommendUser 走单个用户的完整路径；无信号用户转入共享冷启动结果。
func (e *Engine) recommendUser(
	ctx context.Context,
	menu *core.Menu,
	candidates []*core.Dish,
	userID string,
	sharedColdStart func() (core.Recommendation, error),
) (core.Recommendation, bool, error) {
	state, err := e.builder.Build(ctx, userID, candidates)
	if core.IsNoSignal(err) {
		rec, coldErr := sharedColdStart()
		if coldErr != nil {
			return nil, true, coldErr
		}
		return rec, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	rctx := &core.RecommendContext{
		UserID:   userID,
		MenuDate: menu.Date,
		User:     state,
	}
	rec := make(core.Recommendation, len(core.MealBuckets))
	for _, bucket := range core.MealBuckets {
		picks, err := e.scoreBucket(ctx, rctx, menu, bucket)
		if err != nil {
			return nil, false, err
		}
		if len(picks.Picks) > 0 {
			rec[bucket] = picks
		}
	}
	return rec, false, nil
}

// scoreBucket 跑一个 bucket 的打分链并聚合为食堂推荐。
func (e *Engine) scoreBucket(
	ctx context.Context,
	rctx *core.RecommendContext,
	menu *core.Menu,
	bucket string,
) (core.BucketPicks, error) {
	filters := make([]filter.Filter, 0, len(e.filters)+1)
	filters = append(filters, &filter.DietaryFilter{})
	filters = append(filters, e.filters...)

	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.Fanout{
				Sources: []recall.Source{
					&recall.MenuSource{Menu: menu, Bucket: bucket, Catalog: e.catalog},
				},
				Dedup: true,
			},
			&filter.FilterNode{Filters: filters},
			&rank.HybridNode{},
		},
	}
	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return core.BucketPicks{}, err
	}
	return e.aggregator.Aggregate(items), nil
}
