package streamtask

import "errors"

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 服务生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 服务未启动
	ErrNotStarted = errors.New("service not started")

	// ErrAlreadyStarted 服务已启动
	ErrAlreadyStarted = errors.New("service already started")

	// ErrServiceClosed 服务已关闭
	ErrServiceClosed = errors.New("service closed")

	// ────────────────────────────────────────────────────────────────────────
	// 配置与接入错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNilEngine 缺少处理引擎
	ErrNilEngine = errors.New("service requires a processing engine")

	// ErrSessionNotFound 会话不存在
	ErrSessionNotFound = errors.New("session not found")
)
