package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/dinekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("item", cel.DynType),
		cel.Variable("dish", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是规则过滤 DSL 解释器，使用 CEL (Common Expression Language) 实现。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：dish.cuisine_type == "thai" / dish.dish_type != "condiment"
//   - 数值：item.score > 0.7 / rctx.rating_count >= 15
//   - 逻辑：dish.cuisine_type == "korean" && item.score > 0.8
//   - 包含："spicy" in dish.flavor_profiles / item.eatery.contains("North")
//   - 存在性：label.filter_reason != null
//
// 示例：
//   - `"vegan" in dish.dietary_attrs` → 仅保留纯素菜品
//   - `dish.dish_type != "beverage" && item.score > 0.3` → 排除饮品且分数达标
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个新的 DSL 解释器。
// 表达式会被编译并缓存，可以多次调用 Evaluate 方法。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item: item,
		rctx: rctx,
		env:  env,
	}
}

// Evaluate 解析并执行 DSL 表达式，返回布尔结果。
// 表达式使用 CEL (Common Expression Language) 语法。
//
// 注意：has(label.key) 可以用 label.key != null 替代
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}

	// 编译表达式
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	// 创建程序
	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	// 准备输入数据
	input := e.buildInput()

	// 执行表达式
	out, _, err := prg.Eval(input)
	if err != nil {
		// 对于不存在的 key，CEL 会返回错误
		// 用户应该使用 label.key != null 来检查存在性，而不是直接访问
		return false, fmt.Errorf("eval error: %v", err)
	}

	// 转换为布尔值
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	// 构建 label map
	labels := make(map[string]interface{})
	for k, v := range e.item.Labels {
		labels[k] = map[string]interface{}{
			"value":  v.Value,
			"source": v.Source,
		}
	}

	// 构建 dish map（可能为 nil：目录未命中的菜品）
	dish := map[string]interface{}{}
	if d := e.item.Dish; d != nil {
		dish = map[string]interface{}{
			"normalized_key":  d.NormalizedKey,
			"source_name":     d.SourceName,
			"ingredients":     d.Ingredients,
			"flavor_profiles": d.FlavorProfiles,
			"cooking_methods": d.CookingMethods,
			"cuisine_type":    d.CuisineType,
			"dietary_attrs":   d.DietaryAttrs,
			"dish_type":       d.DishType,
		}
	}

	// 构建 item map
	item := map[string]interface{}{
		"id":     e.item.ID,
		"eatery": e.item.Eatery,
		"bucket": e.item.Bucket,
		"score":  e.item.Score,
		"meta":   e.item.Meta,
		"labels": labels,
	}

	// 构建 rctx map（可能为 nil：节点链外直接使用时）
	rctx := map[string]interface{}{}
	if e.rctx != nil {
		rctx = map[string]interface{}{
			"user_id":      e.rctx.UserID,
			"menu_date":    e.rctx.MenuDate,
			"rating_count": e.rctx.RatingCount(),
			"params":       e.rctx.Params,
		}
		if u := e.rctx.User; u != nil {
			rctx["dietary_restrictions"] = u.DietaryRestrictions
		}
	}

	// 为了兼容旧的语法，提供 label 作为顶层访问
	// 例如 label.filter_reason 可以直接访问
	// 注意：CEL 访问不存在的 key 会报错，所以使用 null 作为默认值
	// 用户可以使用 label.key != null 来检查存在性
	labelAccessor := make(map[string]interface{})
	for k, v := range labels {
		// label.filter_reason 返回 value
		labelAccessor[k] = v.(map[string]interface{})["value"]
	}

	return map[string]interface{}{
		"item":  item,
		"dish":  dish,
		"label": labelAccessor,
		"rctx":  rctx,
	}
}
