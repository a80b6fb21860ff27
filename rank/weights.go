package rank

// Weights 是混合打分的权重四元组。
// 四项权重作用于：余弦相似度、风味 Jaccard、烹饪方式 Jaccard、菜系命中。
type Weights struct {
	Cosine  float64
	Flavor  float64
	Method  float64
	Cuisine float64
}

// 权重档位按用户历史评分数 n 选择：
// 评分越多，embedding 空间里学到的偏好越可信，余弦权重上调；
// 类别标签主要用来补偿早期稀疏信号，权重随之下调。
var (
	weightsSparse = Weights{Cosine: 0.40, Flavor: 0.20, Method: 0.15, Cuisine: 0.25}
	weightsMedium = Weights{Cosine: 0.60, Flavor: 0.13, Method: 0.09, Cuisine: 0.18}
	weightsDense  = Weights{Cosine: 0.75, Flavor: 0.08, Method: 0.07, Cuisine: 0.10}
)

// WeightsFor 按历史评分数返回权重档位。
// 档位边界：[0, 15) 稀疏档，[15, 40) 中间档，[40, ∞) 稠密档。
func WeightsFor(ratingCount int) Weights {
	switch {
	case ratingCount >= 40:
		return weightsDense
	case ratingCount >= 15:
		return weightsMedium
	default:
		return weightsSparse
	}
}
