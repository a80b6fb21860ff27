// Package catalog 实现菜品目录：规范化身份、去重、幂等 upsert。
//
// 目录是整个 run 中唯一共享可变资源。写入以 normalized_key 为幂等键，
// at-least-once 重试安全，除底层存储的原子写保证外不需要跨进程锁。
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/dinekit/core"
)

// keyPrefix 是目录条目在 KV 存储中的键前缀。
const keyPrefix = "dish:"

// Catalog 基于 core.Store 实现 core.CatalogStore。
// 条目以 JSON 序列化存储，key 为 "dish:<normalized_key>"。
type Catalog struct {
	store core.Store
}

// Option 定义 Catalog 的函数式配置选项
type Option func(*Catalog)

// NewCatalog 创建目录。
func NewCatalog(store core.Store, opts ...Option) *Catalog {
	c := &Catalog{store: store}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ core.CatalogStore = (*Catalog)(nil)

// Resolve 将原始菜名规范化并查目录，返回 (dish, isNew)。
// isNew 为 true 表示目录未命中，dish 是仅有身份的新条目（尚未写入）。
// 除目录读之外没有副作用：新条目由 resolver 解析属性后才落库。
func (c *Catalog) Resolve(ctx context.Context, sourceName string) (*core.Dish, bool, error) {
	key := NormalizeDishName(sourceName)
	if key == "" {
		return nil, false, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: dish name normalizes to empty key")
	}

	dish, err := c.GetByKey(ctx, key)
	if err == nil {
		return dish, false, nil
	}
	if !core.IsStoreNotFound(err) {
		return nil, false, err
	}
	return core.NewDish(key, sourceName), true, nil
}

// GetByKey 按 normalized_key 读取目录条目。
func (c *Catalog) GetByKey(ctx context.Context, key string) (*core.Dish, error) {
	raw, err := c.store.Get(ctx, keyPrefix+key)
	if err != nil {
		return nil, err
	}
	return decodeDish(raw)
}

// BatchGet 批量读取；缺失的 key 不在结果里，损坏的条目按缺失处理。
func (c *Catalog) BatchGet(ctx context.Context, keys []string) (map[string]*core.Dish, error) {
	if len(keys) == 0 {
		return map[string]*core.Dish{}, nil
	}
	storeKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		storeKeys = append(storeKeys, keyPrefix+k)
	}
	raw, err := c.store.BatchGet(ctx, storeKeys)
	if err != nil {
		return nil, err
	}
	result := make(map[string]*core.Dish, len(raw))
	for _, k := range keys {
		v, ok := raw[keyPrefix+k]
		if !ok {
			continue
		}
		dish, err := decodeDish(v)
		if err != nil {
			continue
		}
		result[k] = dish
	}
	return result, nil
}

// Upsert 幂等写入一个目录条目。
//
// 先写者胜：已有条目的属性/embedding 已解析时保持不变，
// 只允许回填缺失字段与刷新 SourceName。重复 upsert 同一条目是 no-op 语义。
func (c *Catalog) Upsert(ctx context.Context, dish *core.Dish) error {
	merged, err := c.mergeExisting(ctx, dish)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, "catalog: encode dish: "+err.Error())
	}
	return c.store.Set(ctx, keyPrefix+merged.NormalizedKey, raw)
}

// BatchUpsert 批量幂等写入。整批重试安全。
func (c *Catalog) BatchUpsert(ctx context.Context, dishes []*core.Dish) error {
	if len(dishes) == 0 {
		return nil
	}
	kvs := make(map[string][]byte, len(dishes))
	for _, dish := range dishes {
		merged, err := c.mergeExisting(ctx, dish)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(merged)
		if err != nil {
			return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, "catalog: encode dish: "+err.Error())
		}
		kvs[keyPrefix+merged.NormalizedKey] = raw
	}
	return c.store.BatchSet(ctx, kvs)
}

// SetOnboardingFlag 显式改写 OnboardingDish 标记。
// 常规 upsert 对该标记只置不清（避免属性刷新把它冲掉），
// onboarding 重选时用这个入口覆盖写。条目不存在返回存储层的未找到错误。
func (c *Catalog) SetOnboardingFlag(ctx context.Context, key string, flag bool) error {
	dish, err := c.GetByKey(ctx, key)
	if err != nil {
		return err
	}
	if dish.OnboardingDish == flag {
		return nil
	}
	dish.OnboardingDish = flag
	dish.UpdatedAt = time.Now()
	raw, err := json.Marshal(dish)
	if err != nil {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, "catalog: encode dish: "+err.Error())
	}
	return c.store.Set(ctx, keyPrefix+dish.NormalizedKey, raw)
}

// mergeExisting 实现先写者胜的合并规则。
func (c *Catalog) mergeExisting(ctx context.Context, incoming *core.Dish) (*core.Dish, error) {
	existing, err := c.GetByKey(ctx, incoming.NormalizedKey)
	if core.IsStoreNotFound(err) {
		return incoming, nil
	}
	if err != nil {
		return nil, err
	}

	// 身份不可变，已解析字段先写者胜；仅回填缺失部分
	merged := *existing
	if !merged.HasAttributes() && incoming.HasAttributes() {
		merged.Ingredients = incoming.Ingredients
		merged.FlavorProfiles = incoming.FlavorProfiles
		merged.CookingMethods = incoming.CookingMethods
		merged.CuisineType = incoming.CuisineType
		merged.DietaryAttrs = incoming.DietaryAttrs
		merged.DishType = incoming.DishType
		merged.UpdatedAt = time.Now()
	}
	if !merged.HasEmbedding() && incoming.HasEmbedding() {
		merged.Embedding = incoming.Embedding
		merged.UpdatedAt = time.Now()
	}
	if incoming.OnboardingDish {
		merged.OnboardingDish = true
	}
	// 展示名允许刷新
	if incoming.SourceName != "" {
		merged.SourceName = incoming.SourceName
	}
	return &merged, nil
}

func decodeDish(raw []byte) (*core.Dish, error) {
	var dish core.Dish
	if err := json.Unmarshal(raw, &dish); err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: decode dish: "+err.Error())
	}
	return &dish, nil
}
