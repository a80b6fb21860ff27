// Package prefs 实现用户偏好：状态存储、偏好向量构建、标签权重推断。
package prefs

import (
	"context"
	"math"
	"strings"

	"github.com/rushteam/dinekit/core"
	"github.com/rushteam/dinekit/pkg/vector"
)

// DecayFactor 是评分新近度衰减因子：最新评分全权重，第 i 新的评分权重乘 0.95^i。
// 口味会漂移，半年前的喜欢不该和昨天的喜欢一样重。
const DecayFactor = 0.95

// Builder 为单个用户构建偏好向量。
//
// 公式：
//
//	pref = Σ_i direction_i · strength_i · DecayFactor^i · embedding_i + base_vector
//
// 其中 i 是评分在新近度排序里的零基序号，base_vector 是
// 与 initial_ingredients 有交集的候选菜 embedding 的均值（无匹配时为零向量）。
type Builder struct {
	prefs   core.PreferenceStore
	catalog core.CatalogStore
}

// NewBuilder 创建偏好向量构建器。
func NewBuilder(prefs core.PreferenceStore, catalog core.CatalogStore) *Builder {
	return &Builder{prefs: prefs, catalog: catalog}
}

// Build 返回用户的可用偏好状态。
//
//   - 缓存向量未过期时直接返回，不重算
//   - 过期时重算并原子写回（SetVector 清除 VectorStale 后整条 upsert）
//   - 用户既没有评分、初始配料也匹配不到任何候选菜时返回 ErrNoPreferenceSignal，
//     由冷启动路径接管（这不是失败）
//
// candidates 是本次 run 的候选菜集合，用于 initial_ingredients 的 base_vector 匹配。
func (b *Builder) Build(ctx context.Context, userID string, candidates []*core.Dish) (*core.UserPreferenceState, error) {
	state, err := b.prefs.GetPreferences(ctx, userID)
	if core.IsStoreNotFound(err) {
		return nil, core.ErrNoPreferenceSignal
	}
	if err != nil {
		return nil, err
	}

	if !state.VectorStale && len(state.PreferenceVector) == core.EmbeddingDim {
		return state, nil
	}

	ratings, err := b.prefs.GetRatings(ctx, userID)
	if err != nil {
		return nil, err
	}

	base, matched := baseVector(state.InitialIngredients, candidates)
	if len(ratings) == 0 && !matched {
		return nil, core.ErrNoPreferenceSignal
	}

	pref := make([]float64, core.EmbeddingDim)
	if matched {
		vector.AddScaled(pref, base, 1)
	}

	dishes, err := b.ratedDishes(ctx, ratings)
	if err != nil {
		return nil, err
	}
	for i, rating := range ratings {
		dish, ok := dishes[rating.DishKey]
		if !ok || !dish.HasEmbedding() {
			// 没有向量的菜贡献不了信号，但不影响其他评分的衰减序号
			continue
		}
		weight := float64(rating.Direction) * rating.Strength * math.Pow(DecayFactor, float64(i))
		vector.AddScaled(pref, dish.Embedding, weight)
	}

	// 标签权重与向量一起重算：onboarding 基线 + 全量评分增量。
	// 每次都从基线起算，重复重算不会把历史信号累加两遍。
	deltas := InferWeightDeltas(ratings, dishes)
	state.CuisineWeights = core.MergeWeightDelta(core.BaselineWeights(state.OnboardingCuisines), deltas.Cuisine)
	state.FlavorWeights = core.MergeWeightDelta(core.BaselineWeights(state.OnboardingFlavors), deltas.Flavor)
	state.MethodWeights = core.MergeWeightDelta(core.BaselineWeights(state.OnboardingMethods), deltas.Method)

	state.SetVector(pref)
	if err := b.prefs.UpsertPreferences(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// ratedDishes 批量取被评菜品的目录实体（向量与标签权重推断共用）。
func (b *Builder) ratedDishes(ctx context.Context, ratings []core.Rating) (map[string]*core.Dish, error) {
	if len(ratings) == 0 {
		return map[string]*core.Dish{}, nil
	}
	keys := make([]string, 0, len(ratings))
	seen := make(map[string]bool, len(ratings))
	for _, r := range ratings {
		if seen[r.DishKey] {
			continue
		}
		seen[r.DishKey] = true
		keys = append(keys, r.DishKey)
	}
	return b.catalog.BatchGet(ctx, keys)
}

// baseVector 计算 initial_ingredients 的基准向量：
// 配料与任一 token 相交且有向量的候选菜，取其 embedding 均值。
// 第二个返回值表示是否匹配到了至少一道菜。
func baseVector(initialIngredients []string, candidates []*core.Dish) ([]float64, bool) {
	if len(initialIngredients) == 0 || len(candidates) == 0 {
		return nil, false
	}
	tokens := make(map[string]bool, len(initialIngredients))
	for _, ing := range initialIngredients {
		tokens[strings.ToLower(strings.TrimSpace(ing))] = true
	}

	var matchedVecs [][]float64
	for _, dish := range candidates {
		if !dish.HasEmbedding() {
			continue
		}
		for _, ing := range dish.Ingredients {
			if tokens[strings.ToLower(ing)] {
				matchedVecs = append(matchedVecs, dish.Embedding)
				break
			}
		}
	}
	if len(matchedVecs) == 0 {
		return nil, false
	}
	return vector.Mean(matchedVecs), true
}
