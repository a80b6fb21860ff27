package catalog

import (
	"regexp"
	"strings"
)

// 括注段（garnish 说明、份量备注等）不参与菜品身份。
// 例如 "Chicken Teriyaki (with scallions)" 与 "Chicken Teriyaki" 是同一道菜。
var parenRe = regexp.MustCompile(`\s*\([^)]*\)\s*`)

// NormalizeDishName 将原始菜名规范化为目录身份 key。
//
// 规则（顺序固定）：
//  1. 去掉所有括注段
//  2. 全部转小写
//  3. 折叠连续空白并去掉首尾空白
//
// 规范化是确定性的：同一输入永远得到同一 key。
// 两个语义不同的菜名规范化到同一 key 时按同一菜品处理（先写者胜），不是错误。
func NormalizeDishName(name string) string {
	s := parenRe.ReplaceAllString(name, " ")
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
