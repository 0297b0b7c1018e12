package streamtask

import (
	"github.com/dep2p/go-streamtask/internal/core/metrics"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              服务状态
// ════════════════════════════════════════════════════════════════════════════

// ServiceState 服务状态
//
// 表示服务在生命周期中的当前阶段。
type ServiceState int

const (
	// StateIdle 空闲状态（已创建，未启动）
	StateIdle ServiceState = iota

	// StateInitializing 初始化中（Fx App 启动中）
	StateInitializing

	// StateRunning 运行中（可接入传输连接）
	StateRunning

	// StateStopping 停止中（正在关闭会话与组件）
	StateStopping

	// StateStopped 已停止（可重新启动）
	StateStopped
)

// String 返回状态的字符串表示
func (s ServiceState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

// SessionID 会话标识
type SessionID = types.SessionID

// StreamID 逻辑流标识
type StreamID = types.StreamID

// Engine 流处理引擎
//
// 每个逻辑流调用一次 Process，把合成连接当作普通连接驱动。
type Engine = pkgif.Engine

// EngineFunc 函数式 Engine 适配器
type EngineFunc = pkgif.EngineFunc

// ConnContext 处理引擎看到的合成连接上下文
type ConnContext = pkgif.ConnContext

// ════════════════════════════════════════════════════════════════════════════
//                              统计快照
// ════════════════════════════════════════════════════════════════════════════

// Stats 任务与流量统计快照
type Stats struct {
	// Created 创建的任务总数
	Created int64

	// Completed 正常完成的任务总数
	Completed int64

	// Aborted 被中止的任务总数
	Aborted int64

	// Resets 发出的流重置总数
	Resets int64

	// BytesIn 入站字节总数
	BytesIn int64

	// BytesOut 出站字节总数
	BytesOut int64

	// RateIn 入站速率（字节/秒，最近一分钟）
	RateIn float64

	// RateOut 出站速率（字节/秒，最近一分钟）
	RateOut float64
}

// fromSnapshot 把内部统计快照转为公开类型
func fromSnapshot(s metrics.Snapshot) Stats {
	return Stats{
		Created:   s.Created,
		Completed: s.Completed,
		Aborted:   s.Aborted,
		Resets:    s.Resets,
		BytesIn:   s.BytesIn,
		BytesOut:  s.BytesOut,
		RateIn:    s.RateIn,
		RateOut:   s.RateOut,
	}
}
