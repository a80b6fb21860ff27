// Package aggregate 把菜品级分数归并为按餐段排序的食堂推荐。
package aggregate

import (
	"sort"
	"strings"

	"github.com/rushteam/dinekit/core"
)

// 聚合默认参数。
const (
	// DefaultTopEateries 每个 bucket 输出的食堂数
	DefaultTopEateries = 4

	// DefaultTopDishes 参与食堂均分的菜品数（分数最高的前 N 道）
	DefaultTopDishes = 3

	// DefaultMaxDisplayDishes 每个食堂展示的菜品数上限
	DefaultMaxDisplayDishes = 5

	// MeanWeight / VarietyWeight 食堂综合分里均分与配料多样性的权重
	MeanWeight    = 0.85
	VarietyWeight = 0.15
)

// Aggregator 是食堂聚合器：按食堂分组已打分的菜，计算
//
//	eatery_score = 0.85 × mean(top3 菜品分) + 0.15 × 配料多样性加成
//
// 不足 3 道菜时对现有菜取均值，不做零填充。
// 多样性加成 = top 菜配料 token 的去重数 / 总数，惩罚"最好的三道菜
// 其实是同一种蛋白质的三种做法"的食堂；无配料数据时为 0。
//
// 并列时先比全店去重配料数（多者胜），再按食堂名字典序，保证输出确定。
// 展示列表最多 MaxDisplayDishes 道菜，调味品参与打分但不进展示列表。
type Aggregator struct {
	// TopEateries / TopDishes / MaxDisplayDishes 为 0 时取默认值
	TopEateries      int
	TopDishes        int
	MaxDisplayDishes int
}

// eateryGroup 单个食堂在单个 bucket 下的聚合中间态。
type eateryGroup struct {
	name  string
	items []*core.Item
}

// Aggregate 把一个 bucket 内已打分（降序无关，内部自行排序）的菜
// 归并为食堂推荐列表。输入应已通过饮食过滤。
func (a *Aggregator) Aggregate(items []*core.Item) core.BucketPicks {
	topEateries := a.TopEateries
	if topEateries <= 0 {
		topEateries = DefaultTopEateries
	}
	topDishes := a.TopDishes
	if topDishes <= 0 {
		topDishes = DefaultTopDishes
	}
	maxDisplay := a.MaxDisplayDishes
	if maxDisplay <= 0 {
		maxDisplay = DefaultMaxDisplayDishes
	}

	groups := groupByEatery(items)
	type rankedEatery struct {
		group    *eateryGroup
		score    float64
		distinct int
	}
	ranked := make([]rankedEatery, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g.items, func(i, j int) bool {
			return g.items[i].Score > g.items[j].Score
		})
		top := g.items
		if len(top) > topDishes {
			top = top[:topDishes]
		}
		var sum float64
		for _, it := range top {
			sum += it.Score
		}
		mean := sum / float64(len(top))
		score := MeanWeight*mean + VarietyWeight*varietyBonus(top)
		ranked = append(ranked, rankedEatery{
			group:    g,
			score:    score,
			distinct: distinctIngredients(g.items),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].distinct != ranked[j].distinct {
			return ranked[i].distinct > ranked[j].distinct
		}
		return ranked[i].group.name < ranked[j].group.name
	})
	if len(ranked) > topEateries {
		ranked = ranked[:topEateries]
	}

	picks := make([]core.EateryPick, 0, len(ranked))
	for _, r := range ranked {
		picks = append(picks, core.EateryPick{
			Eatery: r.group.name,
			Dishes: displayDishes(r.group.items, maxDisplay),
			Score:  r.score,
		})
	}
	return core.BucketPicks{Picks: picks}
}

// groupByEatery 按食堂名分组；保持遍历确定性，组内保持输入顺序。
func groupByEatery(items []*core.Item) []*eateryGroup {
	index := make(map[string]*eateryGroup)
	var order []*eateryGroup
	for _, it := range items {
		if it == nil || it.Eatery == "" {
			continue
		}
		g, ok := index[it.Eatery]
		if !ok {
			g = &eateryGroup{name: it.Eatery}
			index[it.Eatery] = g
			order = append(order, g)
		}
		g.items = append(g.items, it)
	}
	return order
}

// varietyBonus 计算 top 菜配料的多样性加成：去重 token 数 / 总 token 数。
// 三道菜配料完全不重叠时为 1，全部相同的配料越多值越低；无配料数据为 0。
func varietyBonus(top []*core.Item) float64 {
	total := 0
	distinct := make(map[string]bool)
	for _, it := range top {
		if it.Dish == nil {
			continue
		}
		for _, ing := range it.Dish.Ingredients {
			for _, tok := range strings.Fields(strings.ToLower(ing)) {
				total++
				distinct[tok] = true
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(len(distinct)) / float64(total)
}

// distinctIngredients 统计一家食堂全部候选菜的去重配料 token 数（并列裁决用）。
func distinctIngredients(items []*core.Item) int {
	distinct := make(map[string]bool)
	for _, it := range items {
		if it.Dish == nil {
			continue
		}
		for _, ing := range it.Dish.Ingredients {
			for _, tok := range strings.Fields(strings.ToLower(ing)) {
				distinct[tok] = true
			}
		}
	}
	return len(distinct)
}

// displayDishes 生成展示列表：按分数序取前 maxDisplay 道，
// 调味品跳过（参与打分不参与展示），同名菜去重，展示原始菜名。
func displayDishes(sorted []*core.Item, maxDisplay int) []string {
	out := make([]string, 0, maxDisplay)
	seen := make(map[string]bool)
	for _, it := range sorted {
		if len(out) >= maxDisplay {
			break
		}
		if seen[it.ID] {
			continue
		}
		if it.Dish != nil && it.Dish.DishType == core.DishTypeCondiment {
			continue
		}
		name := it.ID
		if it.Dish != nil && it.Dish.SourceName != "" {
			name = it.Dish.SourceName
		}
		seen[it.ID] = true
		out = append(out, name)
	}
	return out
}
