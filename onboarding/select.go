// Package onboarding 挑选 onboarding 问卷展示的菜：
// 在单位化 embedding 上做贪心最远点选择，给新用户一组口味上最分散的主菜打分。
package onboarding

import (
	"context"
	"fmt"

	"github.com/rushteam/dinekit/core"
	"github.com/rushteam/dinekit/pkg/vector"
)

// DefaultSelectCount 默认挑选的 onboarding 菜数。
const DefaultSelectCount = 10

// SelectDiverse 从候选里贪心挑选 k 道口味最分散的主菜。
//
// 算法：所有 embedding 单位化后，从第一道有效菜起步，每步选取
// "到已选集合的最小余弦距离"最大的一道（cosine distance = 1 - 相似度）。
// 只考虑 dish_type 为 main 且有 embedding 的菜；有效候选不足 k 时返回错误。
// 返回结果保持选取顺序。
func SelectDiverse(dishes []*core.Dish, k int) ([]*core.Dish, error) {
	if k <= 0 {
		k = DefaultSelectCount
	}

	var (
		valid []*core.Dish
		unit  [][]float64
	)
	for _, d := range dishes {
		if d == nil || d.DishType != core.DishTypeMain || !d.HasEmbedding() {
			continue
		}
		valid = append(valid, d)
		unit = append(unit, vector.Normalize(d.Embedding))
	}
	if len(valid) < k {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			fmt.Sprintf("onboarding: only %d main dishes with embeddings, need %d", len(valid), k))
	}

	selected := []int{0}
	minDist := make([]float64, len(valid))
	for i := range valid {
		minDist[i] = 1 - dot(unit[i], unit[0])
	}

	for len(selected) < k {
		for _, idx := range selected {
			minDist[idx] = -1
		}
		next := 0
		for i, d := range minDist {
			if d > minDist[next] {
				next = i
			}
		}
		selected = append(selected, next)
		for i := range valid {
			if d := 1 - dot(unit[i], unit[next]); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	out := make([]*core.Dish, 0, k)
	for _, idx := range selected {
		out = append(out, valid[idx])
	}
	return out, nil
}

// FlagStore 是 Mark 依赖的目录写入口（catalog.Catalog 实现）。
type FlagStore interface {
	SetOnboardingFlag(ctx context.Context, key string, flag bool) error
}

// Mark 把挑选结果写回目录：选中的置 OnboardingDish，其余清除。
// 逐条覆盖写，重复执行安全。
func Mark(ctx context.Context, cat FlagStore, all, selected []*core.Dish) error {
	chosen := make(map[string]bool, len(selected))
	for _, d := range selected {
		chosen[d.NormalizedKey] = true
	}
	for _, d := range all {
		if d == nil || d.OnboardingDish == chosen[d.NormalizedKey] {
			continue
		}
		if err := cat.SetOnboardingFlag(ctx, d.NormalizedKey, chosen[d.NormalizedKey]); err != nil {
			return err
		}
		d.OnboardingDish = chosen[d.NormalizedKey]
	}
	return nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
