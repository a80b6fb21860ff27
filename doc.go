// Package dinekit 是一个食堂菜品个性化推荐工具包。
//
// 设计要点：
// - Pipeline-first: 打分逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 协作方即接口: 属性抽取、embedding、冷启动 LLM、存储都是可注入的接口，
//   engine 按天编排一次完整 run
package dinekit

import "github.com/rushteam/dinekit/pipeline"

// 轻量 facade：便于用户直接 import "dinekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
