package core

import "context"

// 本文件定义推荐核心消费的外部协作方接口（领域层定义、基础设施层实现）。
//
// 设计原则：
//   - 协作方（LLM 属性抽取、词向量 embedding、冷启动 LLM）在源系统里是
//     异步网络调用；这里统一表达为带 context 的同步接口，
//     超时/重试参数由实现与调用方约定，批量的并行与否由调用方决定
//   - 任何协作方失败都不应导致整个 run 失败（见 DomainError 错误分类）

// DishAttributes 是属性抽取协作方的单菜输出。
// 各字段取值范围由 resolver 的词表校验兜底，非法值被丢弃或落到哨兵默认值。
type DishAttributes struct {
	Ingredients    []string `json:"ingredients"`
	FlavorProfiles []string `json:"flavor_profiles"`
	CookingMethods []string `json:"cooking_methods"`
	CuisineType    string   `json:"cuisine_type"`
	DietaryAttrs   []string `json:"dietary_attrs"`
	DishType       string   `json:"dish_type"`
}

// AttributeService 是菜品属性抽取协作方（托管 LLM，黑盒：菜名 -> 结构化属性）。
//
// 实现：
//   - service.LLMClient 通过 OpenAI 兼容的 chat 接口实现
//   - resolver 可配置 feast.Client 优先读取预计算特征（生产可选路径）
type AttributeService interface {
	// Name 返回服务名称（用于日志/监控）
	Name() string

	// ExtractBatch 批量抽取属性，key 为输入的原始菜名。
	// 输入里缺失的菜名表示该菜抽取失败，由调用方降级到默认属性。
	ExtractBatch(ctx context.Context, sourceNames []string) (map[string]DishAttributes, error)

	// Close 释放资源
	Close() error
}

// EmbeddingService 是向量化协作方（黑盒：配料列表 -> 固定维度实数向量）。
//
// 语义：embedding 是配料集合的函数而非菜名的函数，
// 两个菜名不同但配料相同的菜得到同一个向量（刻意为之）。
type EmbeddingService interface {
	// Name 返回服务名称
	Name() string

	// EmbedIngredients 返回配料列表的 EmbeddingDim 维向量。
	// 没有任何可识别配料时返回 ErrNoEmbedding。
	EmbedIngredients(ctx context.Context, ingredients []string) ([]float64, error)

	// Close 释放资源
	Close() error
}

// ColdStartService 是冷启动协作方：没有任何可用偏好信号的用户，
// 由 LLM 基于完整当日菜单直接给出推荐（完全绕开 embedding 路径）。
//
// 返回的 JSON 由 coldstart.Resolver 做结构化校验与清洗：
// 未知食堂丢弃、同 bucket 重复食堂去重、结构非法的条目丢弃，绝不让整个 run 失败。
type ColdStartService interface {
	// Name 返回服务名称
	Name() string

	// Recommend 基于当日完整菜单给出推荐（未清洗的原始结果）
	Recommend(ctx context.Context, menu *Menu) (Recommendation, error)

	// Close 释放资源
	Close() error
}

// CatalogStore 是菜品目录的存储契约（外部 keyed 读写服务）。
//
// 写入为以 normalized_key 为幂等键的 upsert，at-least-once 重试安全，
// 除存储自身的原子 upsert 保证外不需要跨进程锁。
type CatalogStore interface {
	// GetByKey 按 normalized_key 读取；不存在返回 ErrStoreNotFound
	GetByKey(ctx context.Context, key string) (*Dish, error)

	// BatchGet 批量读取；缺失的 key 不在结果里
	BatchGet(ctx context.Context, keys []string) (map[string]*Dish, error)

	// Upsert 幂等写入
	Upsert(ctx context.Context, dish *Dish) error

	// BatchUpsert 批量幂等写入
	BatchUpsert(ctx context.Context, dishes []*Dish) error
}

// PreferenceStore 是用户偏好状态与评分历史的存储契约。
type PreferenceStore interface {
	// GetPreferences 读取用户偏好状态；不存在返回 ErrStoreNotFound
	GetPreferences(ctx context.Context, userID string) (*UserPreferenceState, error)

	// UpsertPreferences 写回偏好状态（含向量与 stale 标记，原子）
	UpsertPreferences(ctx context.Context, prefs *UserPreferenceState) error

	// GetRatings 读取评分历史，按新近度降序（最新在前）
	GetRatings(ctx context.Context, userID string) ([]Rating, error)

	// AppendRating 写入一条评分；同 (user, dish, day) 重评覆盖旧值，
	// 并同步置偏好状态的 VectorStale
	AppendRating(ctx context.Context, rating Rating) error
}
