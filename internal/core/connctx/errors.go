package connctx

import "errors"

var (
	// ErrConnUnclaimed 连接未被认领错误
	//
	// 管道阶段尚未接管连接，此时的 I/O 属于装配顺序缺陷。
	ErrConnUnclaimed = errors.New("connection not claimed")

	// ErrConnClaimed 连接已被认领错误
	ErrConnClaimed = errors.New("connection already claimed")

	// ErrConnClosed 连接已关闭错误
	ErrConnClosed = errors.New("connection closed")

	// ErrStageInstalled 阶段已安装错误
	ErrStageInstalled = errors.New("stage already installed")

	// ErrStageMissing 阶段缺失错误
	//
	// 认领要求两个方向的阶段都已就位。
	ErrStageMissing = errors.New("stage missing")

	// ErrEndpointBound 端点已绑定错误
	ErrEndpointBound = errors.New("endpoint already bound")
)
