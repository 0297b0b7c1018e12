package workers

import "errors"

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrPoolClosed 执行器池已关闭
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrNilTask 提交了空任务
	ErrNilTask = errors.New("submit with nil task")
)
