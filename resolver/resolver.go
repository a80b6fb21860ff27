// Package resolver 实现属性/向量解析：仅对目录未命中的新菜，
// 调用外部抽取与 embedding 协作方，校验输出后写入目录。
//
// 失败语义：协作方调用本地重试后降级到默认属性，绝不让整个 run 失败。
// 没有 embedding 的菜仍然入目录，只是不参与向量相似度打分。
package resolver

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/dinekit/core"
	"github.com/rushteam/dinekit/feast"
)

// BatchSize 是单次属性抽取调用携带的菜数上限（摊薄协作方往返）。
const BatchSize = 10

// Stats 是一次解析的汇总（run 级观测用）。
type Stats struct {
	// Resolved 成功拿到抽取属性的菜数
	Resolved int

	// Precomputed 由特征库直接命中的菜数
	Precomputed int

	// Defaulted 抽取耗尽重试后落到默认属性的菜数
	Defaulted int

	// NoEmbedding 最终没有可用向量的菜数
	NoEmbedding int
}

// Resolver 解析新菜的属性与向量并写入目录。
type Resolver struct {
	attrs    core.AttributeService
	embedder core.EmbeddingService
	catalog  core.CatalogStore

	// features 可选：Feast 在线特征库，命中的菜跳过 LLM 抽取
	features feast.Client

	// maxRetries 单个批次抽取的最大重试次数
	maxRetries int

	// backoff 重试退避基数，第 n 次重试等待 backoff * 2^(n-1)
	backoff time.Duration

	// maxConcurrent 批次间最大并发数
	maxConcurrent int
}

// Option 定义 Resolver 的函数式配置选项
type Option func(*Resolver)

// WithFeatureStore 配置 Feast 在线特征库作为优先解析路径。
func WithFeatureStore(client feast.Client) Option {
	return func(r *Resolver) {
		r.features = client
	}
}

// WithMaxRetries 配置抽取重试次数。
func WithMaxRetries(n int) Option {
	return func(r *Resolver) {
		r.maxRetries = n
	}
}

// WithBackoff 配置重试退避基数。
func WithBackoff(d time.Duration) Option {
	return func(r *Resolver) {
		r.backoff = d
	}
}

// WithMaxConcurrent 配置批次间最大并发数。
func WithMaxConcurrent(n int) Option {
	return func(r *Resolver) {
		r.maxConcurrent = n
	}
}

// NewResolver 创建解析器。
func NewResolver(attrs core.AttributeService, embedder core.EmbeddingService, catalog core.CatalogStore, opts ...Option) *Resolver {
	r := &Resolver{
		attrs:         attrs,
		embedder:      embedder,
		catalog:       catalog,
		maxRetries:    3,
		backoff:       500 * time.Millisecond,
		maxConcurrent: 4,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveNew 解析一组新菜并幂等写入目录。
//
// 批次之间并发执行（批次内无共享可变状态，目录写为幂等 upsert），
// 单个批次失败只影响该批次的菜，降级到默认属性后照常入目录。
func (r *Resolver) ResolveNew(ctx context.Context, dishes []*core.Dish) (Stats, error) {
	var (
		mu    sync.Mutex
		total Stats
	)
	if len(dishes) == 0 {
		return total, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.maxConcurrent)

	for start := 0; start < len(dishes); start += BatchSize {
		end := start + BatchSize
		if end > len(dishes) {
			end = len(dishes)
		}
		batch := dishes[start:end]

		eg.Go(func() error {
			stats, err := r.resolveBatch(ctx, batch)
			if err != nil {
				return err
			}
			mu.Lock()
			total.Resolved += stats.Resolved
			total.Precomputed += stats.Precomputed
			total.Defaulted += stats.Defaulted
			total.NoEmbedding += stats.NoEmbedding
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return total, err
	}
	return total, nil
}

// resolveBatch 处理一个批次：特征库优先、抽取兜底、embedding、写目录。
func (r *Resolver) resolveBatch(ctx context.Context, batch []*core.Dish) (Stats, error) {
	var stats Stats

	// 1. 特征库优先（可选路径）
	remaining := batch
	if r.features != nil {
		remaining = r.applyPrecomputed(ctx, batch, &stats)
	}

	// 2. 剩余的菜走 LLM 抽取（带重试），失败降级默认属性
	if len(remaining) > 0 {
		extracted := r.extractWithRetry(ctx, remaining)
		for _, dish := range remaining {
			attrs, ok := extracted[dish.SourceName]
			if !ok {
				// 默认属性：空标签集合 + 哨兵 cuisine/dish_type
				dish.ApplyAttributes(core.DishAttributes{})
				stats.Defaulted++
				continue
			}
			dish.ApplyAttributes(SanitizeAttributes(attrs))
			stats.Resolved++
		}
	}

	// 3. embedding：配料 -> 向量，维度不符视为 ValidationFailure 丢弃
	for _, dish := range batch {
		if dish.HasEmbedding() {
			continue
		}
		vec, err := r.embedder.EmbedIngredients(ctx, dish.Ingredients)
		if err != nil || len(vec) != core.EmbeddingDim {
			stats.NoEmbedding++
			continue
		}
		dish.Embedding = vec
	}

	// 4. 幂等写目录，整批重试安全
	if err := r.catalog.BatchUpsert(ctx, batch); err != nil {
		return stats, err
	}
	return stats, nil
}

// applyPrecomputed 用特征库命中的预计算特征填充菜品，返回未命中的子集。
func (r *Resolver) applyPrecomputed(ctx context.Context, batch []*core.Dish, stats *Stats) []*core.Dish {
	keys := make([]string, len(batch))
	for i, dish := range batch {
		keys[i] = dish.NormalizedKey
	}
	features, err := r.features.GetDishFeatures(ctx, keys)
	if err != nil {
		// 特征库不可用不致命，整批走抽取路径
		return batch
	}

	remaining := make([]*core.Dish, 0, len(batch))
	for _, dish := range batch {
		f, ok := features[dish.NormalizedKey]
		if !ok {
			remaining = append(remaining, dish)
			continue
		}
		dish.ApplyAttributes(SanitizeAttributes(f.Attributes))
		if len(f.Embedding) == core.EmbeddingDim {
			dish.Embedding = f.Embedding
		}
		stats.Precomputed++
	}
	return remaining
}

// extractWithRetry 调用属性抽取协作方，指数退避重试。
// 耗尽重试返回空 map，由调用方降级。
func (r *Resolver) extractWithRetry(ctx context.Context, dishes []*core.Dish) map[string]core.DishAttributes {
	names := make([]string, len(dishes))
	for i, dish := range dishes {
		names[i] = dish.SourceName
	}

	wait := r.backoff
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			wait *= 2
		}
		extracted, err := r.attrs.ExtractBatch(ctx, names)
		if err == nil {
			return extracted
		}
	}
	return nil
}
