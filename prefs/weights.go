package prefs

import (
	"math"

	"github.com/rushteam/dinekit/core"
)

// 标签权重推断：评分不止影响向量，也把信号摊到菜的类别标签上。
// onboarding 基线（选中标签 1.0）保留，评分增量在其上累加，负值钳制到 0。

// WeightDeltas 是一次推断得到的三组标签权重增量。
type WeightDeltas struct {
	Cuisine map[string]float64
	Flavor  map[string]float64
	Method  map[string]float64
}

// InferWeightDeltas 从评分历史推断标签权重增量。
//
// 每条评分把 direction · strength · DecayFactor^i 记到被评菜的
// 每个风味/做法标签与菜系上（i 与向量构建使用同一新近度序号）。
func InferWeightDeltas(ratings []core.Rating, dishes map[string]*core.Dish) WeightDeltas {
	deltas := WeightDeltas{
		Cuisine: make(map[string]float64),
		Flavor:  make(map[string]float64),
		Method:  make(map[string]float64),
	}
	for i, rating := range ratings {
		dish, ok := dishes[rating.DishKey]
		if !ok {
			continue
		}
		signal := float64(rating.Direction) * rating.Strength * math.Pow(DecayFactor, float64(i))
		for _, flavor := range dish.FlavorProfiles {
			deltas.Flavor[flavor] += signal
		}
		for _, method := range dish.CookingMethods {
			deltas.Method[method] += signal
		}
		if dish.CuisineType != "" && dish.CuisineType != core.CuisineOther {
			deltas.Cuisine[dish.CuisineType] += signal
		}
	}
	return deltas
}

// ApplyWeightDeltas 把推断增量合并进用户状态（不落盘，由调用方 upsert）。
func ApplyWeightDeltas(state *core.UserPreferenceState, deltas WeightDeltas) {
	state.CuisineWeights = core.MergeWeightDelta(state.CuisineWeights, deltas.Cuisine)
	state.FlavorWeights = core.MergeWeightDelta(state.FlavorWeights, deltas.Flavor)
	state.MethodWeights = core.MergeWeightDelta(state.MethodWeights, deltas.Method)
}
