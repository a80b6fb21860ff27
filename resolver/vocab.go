package resolver

import (
	"strings"

	"github.com/rushteam/dinekit/core"
)

// 受控词表。属性抽取协作方的输出不可信，
// 词表外的标签一律丢弃，cuisine/dish_type 落到哨兵默认值。

// ValidFlavors 风味标签词表
var ValidFlavors = map[string]bool{
	"savory": true, "sweet": true, "spicy": true, "sour": true, "umami": true,
	"mild": true, "smoky": true, "tangy": true, "rich": true, "fresh": true,
}

// ValidMethods 烹饪方式词表
var ValidMethods = map[string]bool{
	"fried": true, "grilled": true, "baked": true, "steamed": true, "stir-fried": true,
	"roasted": true, "braised": true, "raw": true, "sauteed": true, "smoked": true,
}

// ValidCuisines 菜系词表（单值）
var ValidCuisines = map[string]bool{
	"chinese": true, "japanese": true, "korean": true, "indian": true, "mexican": true,
	"italian": true, "american": true, "mediterranean": true, "thai": true,
	"vietnamese": true, "french": true, "middle-eastern": true, "other": true,
}

// ValidDietary 饮食标签词表。
// contains-* 标签是矛盾表（filter.Contradictions）的判定依据，两边同步维护。
var ValidDietary = map[string]bool{
	"vegetarian": true, "vegan": true, "gluten-free": true, "dairy-free": true,
	"halal": true, "contains-nuts": true, "contains-shellfish": true,
	"contains-meat": true, "contains-dairy": true, "contains-gluten": true,
	"contains-pork": true, "contains-alcohol": true,
}

// ValidDishTypes 菜品类型词表（单值）
var ValidDishTypes = map[string]bool{
	core.DishTypeMain: true, core.DishTypeSide: true, core.DishTypeCondiment: true,
	core.DishTypeBeverage: true, core.DishTypeDessert: true,
}

// SanitizeAttributes 按词表清洗一条抽取结果：
//   - 标签集合小写化、去重，词表外的丢弃
//   - cuisine_type 词表外落到 "other"，dish_type 词表外落到 "main"
//   - 配料小写化去重（配料是开放词表，不过滤）
func SanitizeAttributes(attrs core.DishAttributes) core.DishAttributes {
	out := core.DishAttributes{
		Ingredients:    dedupLower(attrs.Ingredients, nil),
		FlavorProfiles: dedupLower(attrs.FlavorProfiles, ValidFlavors),
		CookingMethods: dedupLower(attrs.CookingMethods, ValidMethods),
		DietaryAttrs:   dedupLower(attrs.DietaryAttrs, ValidDietary),
	}

	cuisine := strings.ToLower(strings.TrimSpace(attrs.CuisineType))
	if !ValidCuisines[cuisine] {
		cuisine = core.CuisineOther
	}
	out.CuisineType = cuisine

	dishType := strings.ToLower(strings.TrimSpace(attrs.DishType))
	if !ValidDishTypes[dishType] {
		dishType = core.DishTypeMain
	}
	out.DishType = dishType
	return out
}

// dedupLower 小写化并去重；vocab 非 nil 时仅保留词表内的值。保持输入顺序。
func dedupLower(values []string, vocab map[string]bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		if vocab != nil && !vocab[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
