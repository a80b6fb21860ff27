// Package coldstart 处理没有任何可用偏好信号的用户：
// 由 LLM 基于完整当日菜单直接给出推荐，完全绕开 embedding 打分路径。
package coldstart

import (
	"context"
	"fmt"

	"github.com/rushteam/dinekit/core"
)

// MaxPicksPerBucket 清洗后每个 bucket 保留的食堂数上限，与打分路径对齐。
const MaxPicksPerBucket = 4

// Resolver 包装 ColdStartService，对其输出做结构化清洗：
//   - 引用当日菜单里不存在的食堂 → 丢弃该条
//   - 同一 bucket 内重复食堂 → 只保留首个
//   - 空食堂名等结构非法条目 → 丢弃
//   - 超出 MaxPicksPerBucket 的条目截断
//
// 未知 bucket 键整组丢弃。清洗只删不改，绝不让整个 run 失败。
type Resolver struct {
	service core.ColdStartService
}

// NewResolver 创建冷启动解析器。
func NewResolver(service core.ColdStartService) *Resolver {
	return &Resolver{service: service}
}

// Resolve 请求冷启动推荐并清洗结果。
// 协作方调用失败时返回 UNAVAILABLE 错误，由调用方决定该用户是否跳过。
func (r *Resolver) Resolve(ctx context.Context, menu *core.Menu) (core.Recommendation, error) {
	if r.service == nil {
		return nil, core.NewDomainError(core.ModuleColdStart, core.ErrorCodeNotSupported, "coldstart: no service configured")
	}
	raw, err := r.service.Recommend(ctx, menu)
	if err != nil {
		return nil, fmt.Errorf("coldstart recommend: %w", err)
	}
	return Sanitize(raw, menu), nil
}

// Sanitize 按当日菜单校验并清洗一份冷启动推荐。
func Sanitize(raw core.Recommendation, menu *core.Menu) core.Recommendation {
	out := make(core.Recommendation, len(core.MealBuckets))
	for _, bucket := range core.MealBuckets {
		picks, ok := raw[bucket]
		if !ok {
			continue
		}
		known := menu.Eateries(bucket)
		seen := make(map[string]bool, len(picks.Picks))
		kept := make([]core.EateryPick, 0, len(picks.Picks))
		for _, pick := range picks.Picks {
			if len(kept) >= MaxPicksPerBucket {
				break
			}
			if pick.Eatery == "" || !known[pick.Eatery] || seen[pick.Eatery] {
				continue
			}
			seen[pick.Eatery] = true
			kept = append(kept, core.EateryPick{
				Eatery: pick.Eatery,
				Dishes: sanitizeDishes(pick.Dishes),
			})
		}
		if len(kept) > 0 {
			out[bucket] = core.BucketPicks{Picks: kept}
		}
	}
	return out
}

// sanitizeDishes 去掉空菜名并去重，保持 LLM 给出的顺序。
func sanitizeDishes(dishes []string) []string {
	out := make([]string, 0, len(dishes))
	seen := make(map[string]bool, len(dishes))
	for _, d := range dishes {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
