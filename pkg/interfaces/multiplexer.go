// Package interfaces 定义 go-streamtask 的公共接口
//
// 本文件定义 Multiplexer 接口，即任务核心所消费的多路复用器边界。
package interfaces

import (
	"context"

	"github.com/dep2p/go-streamtask/pkg/types"
)

// Multiplexer 定义多路复用器接口
//
// 多路复用器拥有会话内所有流的入站/出站数据队列，并负责把
// "流无法产生结果" 的信号向上层呈现。任务核心只通过这组窄接口
// 与它交互，从不持有其内部状态。
type Multiplexer interface {
	// Retain 获取一个共享所有权句柄
	//
	// 任务在创建时调用，保证多路复用器存活到所有句柄释放之后。
	// 返回的句柄必须恰好释放一次；重复 Release 是无害的空操作。
	Retain() Ref

	// ResetStream 报告某流无法产生结果
	//
	// cause 描述失败原因，nil 表示无具体错误（如纯粹的无输出结束）。
	// 每流只记录首次重置，后续调用被忽略。
	ResetStream(id types.StreamID, cause error)

	// DequeueInput 从指定流的入站队列取数据
	//
	// 返回值 chunk 的所有权转移给调用方；eos 为 true 表示流输入结束
	// （可能与最后一块数据同时返回）。阻塞策略为 PolicyNonBlocking 且
	// 队列为空时返回 ErrWouldBlock。max 限制单次返回的最大字节数，
	// 超出部分留在队列中供后续读取。
	DequeueInput(ctx context.Context, id types.StreamID, policy types.BlockingPolicy, max int) (chunk []byte, eos bool, err error)

	// EnqueueOutput 向指定流的出站队列写数据
	//
	// 数据被复制进队列，调用方可以立即复用 chunk。队列达到容量上限时
	// 阻塞，直到消费方腾出空间或 ctx 取消。
	EnqueueOutput(ctx context.Context, id types.StreamID, chunk []byte) error
}

// Ref 多路复用器的共享所有权句柄
//
// 由 Multiplexer.Retain 返回。持有句柄期间多路复用器保证可用；
// Release 幂等，可安全地在并发拆除路径上调用。
type Ref interface {
	// Release 释放句柄
	Release()
}
