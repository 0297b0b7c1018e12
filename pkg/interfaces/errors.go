// Package interfaces 定义 go-streamtask 的公共接口
//
// 本文件定义跨包使用的契约错误。
package interfaces

import "errors"

var (
	// ErrStreamAborted 流已中止错误
	//
	// 任务被中止或适配器被拆除后，任何经由适配器的读写都确定性地
	// 返回本错误。处理引擎应将其视为处理结束信号，而非崩溃。
	ErrStreamAborted = errors.New("stream aborted")

	// ErrStreamReset 流已重置错误
	//
	// 多路复用器已为该流记录重置，后续入队/出队操作均失败。
	ErrStreamReset = errors.New("stream reset")

	// ErrWouldBlock 操作将阻塞错误
	//
	// 非阻塞策略下队列暂无数据时返回。
	ErrWouldBlock = errors.New("operation would block")

	// ErrNoOutput 流未产生任何输出
	//
	// 处理引擎结束时输出适配器从未写出数据，任务以本原因重置流，
	// 避免逻辑流永久悬挂。
	ErrNoOutput = errors.New("stream produced no output")

	// ErrTaskAborted 任务已中止错误
	ErrTaskAborted = errors.New("task aborted")

	// ErrTaskDestroyed 任务已销毁错误
	//
	// 销毁后再使用任务属于调度器的契约违规，通过本错误显式暴露，
	// 而非静默访问失效状态。
	ErrTaskDestroyed = errors.New("task destroyed")

	// ErrMplxClosed 多路复用器已关闭错误
	ErrMplxClosed = errors.New("multiplexer closed")
)
