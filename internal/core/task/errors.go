package task

import "errors"

var (
	// ErrNilMultiplexer 创建参数缺少多路复用器错误
	ErrNilMultiplexer = errors.New("create params have nil multiplexer")

	// ErrNilEngine 执行参数缺少处理引擎错误
	ErrNilEngine = errors.New("run with nil engine")

	// ErrNoRegistry 无可用管道注册表错误
	//
	// 创建参数未携带注册表且进程默认注册表尚未初始化。
	ErrNoRegistry = errors.New("no pipeline registry available")
)
