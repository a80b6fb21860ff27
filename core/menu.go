package core

// 三个餐段 bucket。抓取器把各食堂的餐次（Breakfast/Brunch/Lunch/Late Lunch/Dinner）
// 归并到这三个 bucket 后交给推荐核心。
const (
	BucketBreakfastBrunch = "breakfast_brunch"
	BucketLunch           = "lunch"
	BucketDinner          = "dinner"
)

// MealBuckets 按展示顺序排列的全部 bucket。
var MealBuckets = []string{BucketBreakfastBrunch, BucketLunch, BucketDinner}

// MenuSlice 是某个食堂在某个 bucket 下的当日菜单切片（抓取器的输出契约）。
type MenuSlice struct {
	EateryName  string   `json:"eatery_name"`
	Location    string   `json:"location"`
	Bucket      string   `json:"bucket"`
	Categories  []string `json:"categories,omitempty"`
	Items       []string `json:"items"`
	MenuSummary string   `json:"menu_summary,omitempty"`
}

// Menu 是一次 run 的完整当日菜单：bucket -> 菜单切片列表。
type Menu struct {
	// Date 菜单日期（YYYY-MM-DD，本地时区）
	Date string `json:"date"`

	Buckets map[string][]MenuSlice `json:"buckets"`
}

// Eateries 返回某 bucket 下出现的食堂名集合（冷启动结果校验用）。
func (m *Menu) Eateries(bucket string) map[string]bool {
	out := make(map[string]bool)
	for _, ms := range m.Buckets[bucket] {
		out[ms.EateryName] = true
	}
	return out
}

// EateryPick 是最终输出里的一条食堂推荐。
type EateryPick struct {
	Eatery string   `json:"eatery"`
	Dishes []string `json:"dishes"`

	// Score 食堂综合分；冷启动路径不打分，保持 0
	Score float64 `json:"score,omitempty"`
}

// BucketPicks 是单个 bucket 的推荐结果。
type BucketPicks struct {
	Picks []EateryPick `json:"picks"`
}

// Recommendation 是一个用户的完整当日推荐：bucket -> picks。
type Recommendation map[string]BucketPicks

// MenuEntry 是当日菜单登记表的一条记录（评分链接等下游功能依赖）。
// (MenuDate, DishKey, Eatery, Bucket) 唯一，重复 upsert 幂等。
type MenuEntry struct {
	MenuDate string `json:"menu_date"`
	DishKey  string `json:"dish_key"`
	Eatery   string `json:"eatery"`
	Bucket   string `json:"bucket"`
}
