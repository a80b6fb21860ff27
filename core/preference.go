package core

import "time"

// 评分方向：+1 喜欢 / -1 不喜欢。
const (
	RatingLiked    = 1
	RatingDisliked = -1
)

// Rating 是一条用户评分，(user, dish, day) 三元组最多一条。
//
// 生命周期：由 onboarding 滑条或邮件里的评分动作创建；写入后不可变，
// 除非用户主动删除或对同一 (user, dish, day) 显式重评。
type Rating struct {
	UserID string `json:"user_id"`

	// DishKey 被评菜品的 normalized_key
	DishKey string `json:"dish_key"`

	// Direction +1（喜欢）或 -1（不喜欢）
	Direction int `json:"direction"`

	// Strength 偏好强度，(0, 1]；滑条打分换算得到，二元点赞固定 1.0
	Strength float64 `json:"strength"`

	// OccurredAt / MenuDate 用于按新近度排序
	OccurredAt time.Time `json:"occurred_at"`
	MenuDate   string    `json:"menu_date"`
}

// UserPreferenceState 是单个用户的口味偏好状态。
//
// 可变性规则：
//   - onboarding 提交、看板编辑、评分事件会修改状态；
//     其中评分事件只翻转 VectorStale，不直接改向量
//   - PreferenceVector 只由 Preference Builder（唯一写者）重算并写回，
//     写回与清除 VectorStale 原子完成
//   - 权重 map 里不允许出现负值（缺失的标签语义为权重 0）
type UserPreferenceState struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`

	// InitialIngredients onboarding 时选择的配料 token 集合
	InitialIngredients []string `json:"initial_ingredients"`

	// OnboardingCuisines / OnboardingFlavors / OnboardingMethods
	// onboarding 选中的标签集合，作为权重重算的基线（每个标签 1.0）
	OnboardingCuisines []string `json:"onboarding_cuisines,omitempty"`
	OnboardingFlavors  []string `json:"onboarding_flavors,omitempty"`
	OnboardingMethods  []string `json:"onboarding_methods,omitempty"`

	// CuisineWeights / FlavorWeights / MethodWeights 标签 -> 正实数权重。
	// onboarding 选中的标签初始化为 1.0；缺失标签即权重 0。
	CuisineWeights map[string]float64 `json:"cuisine_weights"`
	FlavorWeights  map[string]float64 `json:"flavor_weights"`
	MethodWeights  map[string]float64 `json:"method_weights"`

	// DietaryRestrictions 饮食限制标签集合
	DietaryRestrictions []string `json:"dietary_restrictions"`

	// PreferenceVector 缓存的 300 维口味向量；可能过期（见 VectorStale）
	PreferenceVector []float64 `json:"preference_vector,omitempty"`

	// VectorStale 任何评分事件或偏好编辑都会置 true；
	// 只有 Builder 重算写回时才清除。过期向量绝不用于打分。
	VectorStale bool `json:"vector_stale"`

	// RatingCount 历史评分总数，驱动混合打分的权重档位
	RatingCount int `json:"rating_count"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserPreferenceState 创建一个新用户的偏好状态（onboarding 入口调用）。
// 新用户的向量天然过期，首个 run 会触发重算或转入冷启动。
func NewUserPreferenceState(userID string) *UserPreferenceState {
	return &UserPreferenceState{
		UserID:              userID,
		InitialIngredients:  []string{},
		CuisineWeights:      make(map[string]float64),
		FlavorWeights:       make(map[string]float64),
		MethodWeights:       make(map[string]float64),
		DietaryRestrictions: []string{},
		VectorStale:         true,
		UpdatedAt:           time.Now(),
	}
}

// MarkStale 标记缓存向量过期（评分写入、偏好编辑时调用）。
func (p *UserPreferenceState) MarkStale() {
	p.VectorStale = true
	p.UpdatedAt = time.Now()
}

// SetVector 写回重算后的向量并清除过期标记。
// 仅 Preference Builder 调用；与存储层写回配合保证原子语义。
func (p *UserPreferenceState) SetVector(vec []float64) {
	p.PreferenceVector = vec
	p.VectorStale = false
	p.UpdatedAt = time.Now()
}

// InitOnboardingWeights 按 onboarding 选择初始化标签权重（每个选中标签 1.0），
// 并保留选择集合作为后续权重重算的基线。
func (p *UserPreferenceState) InitOnboardingWeights(cuisines, flavors, methods []string) {
	p.OnboardingCuisines = cuisines
	p.OnboardingFlavors = flavors
	p.OnboardingMethods = methods
	for _, c := range cuisines {
		p.CuisineWeights[c] = 1.0
	}
	for _, f := range flavors {
		p.FlavorWeights[f] = 1.0
	}
	for _, m := range methods {
		p.MethodWeights[m] = 1.0
	}
	p.MarkStale()
}

// BaselineWeights 返回 onboarding 基线权重（每个选中标签 1.0）。
func BaselineWeights(tags []string) map[string]float64 {
	out := make(map[string]float64, len(tags))
	for _, t := range tags {
		out[t] = 1.0
	}
	return out
}

// MergeWeightDelta 将推断出的权重增量合并进现有权重。
// onboarding 基线保留、评分信号在其上加减；结果钳制在 0，权重 map 不出现负值。
func MergeWeightDelta(existing, delta map[string]float64) map[string]float64 {
	merged := make(map[string]float64, len(existing)+len(delta))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range delta {
		merged[k] += v
	}
	for k, v := range merged {
		if v < 0 {
			merged[k] = 0
		}
	}
	return merged
}

// HasCategoricalWeights 判断用户是否设置过任何类别权重。
// 全空时混合打分退化为纯余弦相似度。
func (p *UserPreferenceState) HasCategoricalWeights() bool {
	return len(p.CuisineWeights) > 0 || len(p.FlavorWeights) > 0 || len(p.MethodWeights) > 0
}
