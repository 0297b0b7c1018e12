// Package interfaces 定义 go-streamtask 的公共接口
//
// 本文件定义处理引擎边界：Engine、ConnContext、Endpoint 与 BufferAllocator。
package interfaces

import (
	"context"
	"net"

	"github.com/dep2p/go-streamtask/pkg/types"
)

// Engine 定义处理引擎接口
//
// 处理引擎是不透明的外部协作者：给定一个连接上下文，运行一次完整的
// 常规单请求连接处理流水线（解析请求、分发处理、生成响应），同步
// 返回。任务核心对引擎内部不做任何假设。
type Engine interface {
	// Process 在给定连接上下文上执行一次完整处理
	//
	// 对调用方而言是阻塞调用，引擎产生最终响应或失败后才返回。
	// 每个任务恰好调用一次。
	Process(ctx context.Context, conn ConnContext) error
}

// EngineFunc 函数式 Engine 适配器
type EngineFunc func(ctx context.Context, conn ConnContext) error

// Process 实现 Engine 接口
func (f EngineFunc) Process(ctx context.Context, conn ConnContext) error {
	return f(ctx, conn)
}

// ConnContext 定义合成连接上下文接口
//
// 满足处理引擎对"一条私有网络连接"的全部期望：net.Conn 字节流、
// 对端地址、所属会话关联、任务域缓冲分配，但背后没有真实套接字。
// Read/Write 经由已安装的管道阶段完成；未被认领的连接拒绝 I/O。
type ConnContext interface {
	net.Conn

	// SessionID 返回所属会话标识
	SessionID() types.SessionID

	// StreamID 返回逻辑流标识
	StreamID() types.StreamID

	// LogID 返回 "会话-流" 日志关联标识
	LogID() string

	// Buffers 返回任务域缓冲分配器
	//
	// 分配的内存计入任务竞技场，随任务销毁整体回收。
	Buffers() BufferAllocator

	// Input 返回已安装的输入阶段，未认领时为 nil
	//
	// 引擎可直接使用输入阶段做试探式或非阻塞读取。
	Input() InputStage

	// Output 返回已安装的输出阶段，未认领时为 nil
	Output() OutputStage
}

// Endpoint 定义合成传输端点能力
//
// 处理引擎只依赖地址元数据这一能力，而非具体传输资源：端点从不
// 连接任何外部对端，Close 仅释放元数据占位。
type Endpoint interface {
	// LocalAddr 返回本端地址
	LocalAddr() net.Addr

	// RemoteAddr 返回对端地址
	RemoteAddr() net.Addr

	// Close 释放端点
	Close() error
}

// BufferAllocator 定义任务域缓冲分配器接口
type BufferAllocator interface {
	// Get 分配 n 字节缓冲区
	Get(n int) ([]byte, error)

	// Put 归还缓冲区
	Put(p []byte)
}
