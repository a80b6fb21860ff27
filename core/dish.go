package core

import "time"

// EmbeddingDim 是菜品向量的固定维度（food2vec 词向量为 300 维）。
// 所有写入 Catalog 的 embedding 必须等于该维度，否则视为 ValidationFailure 丢弃。
const EmbeddingDim = 300

// DishType 菜品类型枚举值。
const (
	DishTypeMain      = "main"
	DishTypeSide      = "side"
	DishTypeCondiment = "condiment"
	DishTypeBeverage  = "beverage"
	DishTypeDessert   = "dessert"
)

// CuisineOther 是 cuisine_type 的兜底哨兵值：属性抽取失败或无法归类时使用。
const CuisineOther = "other"

// Dish 是菜品目录（Catalog）中的规范实体。
//
// 身份规则：
//   - NormalizedKey 由原始菜名规范化得到（小写、去括注、折叠空白），全局唯一
//   - 首次在抓取中出现时创建；属性与 embedding 恰好解析一次（以 key 幂等）
//   - 不同菜名规范化到同一 key 视为同一菜品（先写者胜），不报错
//   - 永不删除；SourceName/属性可刷新，身份不可变
type Dish struct {
	// NormalizedKey 规范化身份 key，唯一
	NormalizedKey string `json:"normalized_key"`

	// SourceName 菜单上的原始展示名
	SourceName string `json:"source_name"`

	// Ingredients 配料 token 集合（LLM 抽取结果，小写）
	Ingredients []string `json:"ingredients"`

	// Embedding 300 维实数向量；未解析前为 nil
	Embedding []float64 `json:"embedding,omitempty"`

	// FlavorProfiles / CookingMethods 类别标签集合
	FlavorProfiles []string `json:"flavor_profiles"`
	CookingMethods []string `json:"cooking_methods"`

	// CuisineType 单一菜系标签，默认 "other"
	CuisineType string `json:"cuisine_type"`

	// DietaryAttrs 饮食兼容标签（vegetarian / gluten-free / contains-dairy ...）。
	// 空集合语义为"未知/未检查"，不是"无"：空集合永远通过饮食过滤。
	DietaryAttrs []string `json:"dietary_attrs"`

	// DishType 菜品类型：main / side / condiment / beverage / dessert
	DishType string `json:"dish_type"`

	// OnboardingDish 是否被选为 onboarding 展示菜品（最大多样性选择的结果）
	OnboardingDish bool `json:"is_onboarding_dish,omitempty"`

	// UpdatedAt 最后一次属性刷新时间
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDish 创建一个仅有身份、尚未解析属性的菜品。
func NewDish(normalizedKey, sourceName string) *Dish {
	return &Dish{
		NormalizedKey:  normalizedKey,
		SourceName:     sourceName,
		Ingredients:    []string{},
		FlavorProfiles: []string{},
		CookingMethods: []string{},
		CuisineType:    CuisineOther,
		DietaryAttrs:   []string{},
		DishType:       DishTypeMain,
		UpdatedAt:      time.Now(),
	}
}

// HasEmbedding 判断菜品是否已有合法维度的向量。
func (d *Dish) HasEmbedding() bool {
	return len(d.Embedding) == EmbeddingDim
}

// HasAttributes 判断属性是否已抽取过（用于回填判断：只看风味标签即可）。
func (d *Dish) HasAttributes() bool {
	return len(d.FlavorProfiles) > 0
}

// ApplyAttributes 将抽取结果写入菜品，并规范兜底值。
func (d *Dish) ApplyAttributes(attrs DishAttributes) {
	d.Ingredients = attrs.Ingredients
	d.FlavorProfiles = attrs.FlavorProfiles
	d.CookingMethods = attrs.CookingMethods
	d.CuisineType = attrs.CuisineType
	d.DietaryAttrs = attrs.DietaryAttrs
	d.DishType = attrs.DishType
	if d.CuisineType == "" {
		d.CuisineType = CuisineOther
	}
	if d.DishType == "" {
		d.DishType = DishTypeMain
	}
	d.UpdatedAt = time.Now()
}
