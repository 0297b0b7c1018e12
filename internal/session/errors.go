package session

import (
	"errors"
	"io"

	"github.com/libp2p/go-yamux/v4"
)

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrNilConn 缺少传输连接
	ErrNilConn = errors.New("session requires a transport connection")

	// ErrNilEngine 缺少处理引擎
	ErrNilEngine = errors.New("session requires a processing engine")

	// ErrNilPool 缺少执行器池
	ErrNilPool = errors.New("session requires a worker pool")

	// ErrSessionClosed 会话已关闭
	ErrSessionClosed = errors.New("session is closed")
)

// isSessionEnd 报告接受循环的错误是否属于正常的会话终止
func isSessionEnd(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, yamux.ErrSessionShutdown)
}
