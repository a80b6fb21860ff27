package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/dinekit/core"
	"github.com/rushteam/dinekit/pipeline"
	"github.com/rushteam/dinekit/pkg/utils"
	"github.com/rushteam/dinekit/pkg/vector"
)

// HybridNode 是混合打分 Node：embedding 余弦相似度叠加类别标签信号。
//
//	score = w_cos·cos(pref, dish.embedding)
//	      + w_flavor·jaccard(用户风味标签, dish.flavor_profiles)
//	      + w_method·jaccard(用户烹饪方式标签, dish.cooking_methods)
//	      + w_cuisine·[dish.cuisine_type 命中用户菜系标签]
//
// 权重四元组按用户历史评分数选档（见 WeightsFor）。
// 用户完全没有类别权重时退化为纯余弦，类别项整体跳过。
//
// 约定：
//   - 零向量余弦 0、双空集 Jaccard 0（见 pkg/vector）
//   - Dish 为空或无 embedding 的 item 得分 0，不参与排名但保留在链上
//   - 写入 labels：rank_weights、score_cosine
//   - 更新 item.Score 并按分数降序稳定排序
type HybridNode struct{}

func (n *HybridNode) Name() string        { return "rank.hybrid" }
func (n *HybridNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *HybridNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if rctx == nil || rctx.User == nil {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeInvalidInput, "hybrid rank requires user preference state")
	}
	user := rctx.User
	if user.VectorStale {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeInvalidInput, "preference vector is stale, rebuild before scoring")
	}

	weights := WeightsFor(rctx.RatingCount())
	tier := fmt.Sprintf("cos=%.2f", weights.Cosine)

	for _, it := range items {
		if it == nil {
			continue
		}
		it.Score = n.score(user, weights, it)
		it.PutLabel("rank_weights", utils.Label{Value: tier, Source: "rank.hybrid"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}

func (n *HybridNode) score(user *core.UserPreferenceState, w Weights, it *core.Item) float64 {
	if it.Dish == nil {
		return 0
	}
	dish := it.Dish

	cos := vector.Cosine(user.PreferenceVector, dish.Embedding)
	it.PutLabel("score_cosine", utils.Label{Value: fmt.Sprintf("%.4f", cos), Source: "rank.hybrid"})

	// 纯 embedding 信号：类别项整体跳过
	if !user.HasCategoricalWeights() {
		return cos
	}

	score := w.Cosine * cos
	score += w.Flavor * vector.Jaccard(weightKeys(user.FlavorWeights), dish.FlavorProfiles)
	score += w.Method * vector.Jaccard(weightKeys(user.MethodWeights), dish.CookingMethods)
	if _, ok := user.CuisineWeights[dish.CuisineType]; ok {
		score += w.Cuisine
	}
	return score
}

func weightKeys(weights map[string]float64) []string {
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	return keys
}
