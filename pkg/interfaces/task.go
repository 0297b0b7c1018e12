// Package interfaces 定义 go-streamtask 的公共接口
//
// 本文件定义 Task 接口，即流任务暴露给调度器的操作面。
package interfaces

import (
	"context"

	"github.com/dep2p/go-streamtask/pkg/types"
)

// Task 定义流任务的调度器视图
//
// 一个任务代表一个逻辑流的执行：它持有合成连接上下文与两个管道
// 适配器，生命周期为 创建 → 执行 → （可选中止）→ 销毁。
// 标识访问器可与执行中的 Run 并发调用；Destroy 必须在 Run 返回后
// 由调度器串行调用。
type Task interface {
	// SessionID 返回所属会话标识（创建后不变）
	SessionID() types.SessionID

	// StreamID 返回逻辑流标识（创建后不变）
	StreamID() types.StreamID

	// State 返回运行状态（原子读取，可跨线程轮询）
	State() types.RunState

	// SetState 设置运行状态（原子写入，由执行器调用）
	SetState(s types.RunState)

	// IsRunning 报告任务是否正在执行
	IsRunning() bool

	// Run 在给定引擎上同步执行一次任务
	//
	// 前置条件：任务未被中止。引擎返回后，若输出阶段从未写出数据，
	// 任务向多路复用器发出一次流重置。
	Run(ctx context.Context, engine Engine) error

	// Abort 中止任务
	//
	// 拆除两个适配器但保留竞技场与连接上下文；可与进行中的 Run
	// 并发调用，在途的适配器调用会观察到拆除并返回 ErrStreamAborted。
	Abort()

	// Destroy 销毁任务
	//
	// 拆除残余适配器、释放多路复用器句柄、整体销毁竞技场。
	// 不得与执行中的 Run 并发调用。
	Destroy() error
}
