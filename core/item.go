package core

import "github.com/rushteam/dinekit/pkg/utils"

// Item 是打分链路中的统一承载结构：一次 (菜品, 食堂, bucket) 出现。
// Labels 用于解释与策略驱动；Score 用于排序与聚合决策。
type Item struct {
	// ID 即菜品的 normalized_key
	ID string

	// Dish 关联的目录实体（打分前必须已完成解析）
	Dish *Dish

	// Eatery / Bucket 本条出现所属的食堂与餐段
	Eatery string
	Bucket string

	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
