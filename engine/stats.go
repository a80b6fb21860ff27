package engine

import (
	"sync"

	"github.com/rushteam/dinekit/resolver"
)

// RunStats 是单次 run 的运行统计。
// 协作方故障按错误分类降级后记录在这里而不是让 run 失败，
// 调度方据此决定告警阈值。生产可替换为外部监控系统的 Monitor 实现。
type RunStats struct {
	// MenuDishes 当日菜单去重后的菜品数；NewDishes 其中首次出现的
	MenuDishes int
	NewDishes  int

	// Resolve 属性/向量解析统计
	Resolve resolver.Stats

	// UsersScored / UsersColdStart / UsersSkipped 三类用户计数
	UsersScored    int
	UsersColdStart int
	UsersSkipped   int

	// Errors 被跳过的用户及原因（user_id: message）
	Errors []string
}

// Monitor 接收 run 过程中的事件。实现必须并发安全。
type Monitor interface {
	// UserScored / UserColdStart / UserSkipped 按用户结果计数
	UserScored(userID string)
	UserColdStart(userID string)
	UserSkipped(userID string, err error)
}

// statsCollector 是 Run 内部的并发安全统计收集器。
type statsCollector struct {
	mu      sync.Mutex
	stats   RunStats
	monitor Monitor
}

func (c *statsCollector) scored(userID string) {
	c.mu.Lock()
	c.stats.UsersScored++
	c.mu.Unlock()
	if c.monitor != nil {
		c.monitor.UserScored(userID)
	}
}

func (c *statsCollector) coldStart(userID string) {
	c.mu.Lock()
	c.stats.UsersColdStart++
	c.mu.Unlock()
	if c.monitor != nil {
		c.monitor.UserColdStart(userID)
	}
}

func (c *statsCollector) skipped(userID string, err error) {
	c.mu.Lock()
	c.stats.UsersSkipped++
	c.stats.Errors = append(c.stats.Errors, userID+": "+err.Error())
	c.mu.Unlock()
	if c.monitor != nil {
		c.monitor.UserSkipped(userID, err)
	}
}

func (c *statsCollector) snapshot() RunStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.stats
	out.Errors = append([]string(nil), c.stats.Errors...)
	return out
}
