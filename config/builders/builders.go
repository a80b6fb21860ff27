// Package builders 在 init 中注册内置 Node 的配置构建器。
// 入口处 import _ 本包即可用 YAML/JSON 配置组装打分链。
//
// 召回节点不在此注册：MenuSource 依赖运行期的当日菜单与目录实例，
// 由 engine 在每次 run 时组装，配置驱动只覆盖过滤/排序/重排阶段。
package builders

import (
	"fmt"

	"github.com/rushteam/dinekit/config"
	"github.com/rushteam/dinekit/filter"
	"github.com/rushteam/dinekit/pipeline"
	"github.com/rushteam/dinekit/pkg/conv"
	"github.com/rushteam/dinekit/rank"
	"github.com/rushteam/dinekit/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rank.hybrid", BuildHybridNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

// BuildFilterNode 组装一个 FilterNode，filters 列表逐项构建：
//
//	filters:
//	  - type: dietary
//	  - type: denylist
//	    eateries: ["West Annex"]
//	    dish_keys: ["mystery stew"]
//	  - type: rule
//	    expr: 'dish.dish_type == "beverage"'
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "dietary":
			filters = append(filters, &filter.DietaryFilter{})

		case "denylist":
			eateries := conv.SliceAnyToString(filterMap["eateries"])
			dishKeys := conv.SliceAnyToString(filterMap["dish_keys"])
			eateryKey := conv.ConfigGet(filterMap, "eatery_key", "")
			dishKey := conv.ConfigGet(filterMap, "dish_key", "")
			filters = append(filters, filter.NewDenylistFilter(eateries, dishKeys, nil, eateryKey, dishKey))

		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter requires expr")
			}
			filters = append(filters, &filter.RuleFilter{Expr: expr})

		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

// BuildHybridNode 构建混合打分节点（权重档位由用户评分数决定，无配置项）。
func BuildHybridNode(map[string]interface{}) (pipeline.Node, error) {
	return &rank.HybridNode{}, nil
}

// BuildTopNNode 构建 Top-N 截断节点。
func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

// BuildDiversityNode 构建菜系多样性重排节点。
func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{
		MaxPerCuisine: int(conv.ConfigGetInt64(cfg, "max_per_cuisine", 0)),
	}, nil
}
