package core

import "github.com/rushteam/dinekit/pkg/utils"

// RecommendContext 承载用户/日期/实时信息，贯穿整个打分 Pipeline 透传。
type RecommendContext struct {
	UserID string

	// MenuDate 本次 run 的菜单日期（YYYY-MM-DD）
	MenuDate string

	// User 是强类型偏好状态；打分路径要求非空且向量不过期
	User *UserPreferenceState

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	// 例如：新用户、冷启动、严格饮食限制等
	Labels map[string]utils.Label

	// Params 请求级上下文参数（例如 date_local、campus_area 等）
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// RatingCount 返回用户历史评分数（无偏好状态时为 0），驱动权重档位选择。
func (rctx *RecommendContext) RatingCount() int {
	if rctx.User == nil {
		return 0
	}
	return rctx.User.RatingCount
}
