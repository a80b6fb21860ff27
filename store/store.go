package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.KeyValueStore 接口。
//
// 键空间约定（由上层模块维护）：
//   - dish:<normalized_key>       菜品目录条目（JSON）
//   - prefs:<user_id>             用户偏好状态（JSON）
//   - ratings:<user_id>           评分时间线（zset，score 为评分时间戳）
//   - menu:<date>                 当日菜单登记表（hash，field 为 normalized_key）
//
// 示例：
//   var s core.Store = NewMemoryStore()
//   var kv core.KeyValueStore = NewMemoryStore()
