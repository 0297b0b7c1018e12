package pipeline

import "errors"

var (
	// ErrDuplicateStage 阶段名已注册错误
	ErrDuplicateStage = errors.New("stage already registered")

	// ErrStageNotFound 阶段名未注册错误
	ErrStageNotFound = errors.New("stage not registered")

	// ErrNilMultiplexer 绑定缺少多路复用器错误
	ErrNilMultiplexer = errors.New("binding has nil multiplexer")
)
