package mplx

import "errors"

var (
	// ErrStreamExists 流已存在错误
	ErrStreamExists = errors.New("stream already exists")

	// ErrStreamUnknown 流不存在错误
	//
	// 流从未打开，或已被 CloseStream 回收。
	ErrStreamUnknown = errors.New("stream unknown")

	// ErrInputClosed 输入方向已关闭错误
	//
	// CloseInput 之后继续灌入数据属于驱动方的契约违规。
	ErrInputClosed = errors.New("stream input closed")

	// ErrOutputClosed 输出方向已关闭错误
	ErrOutputClosed = errors.New("stream output closed")
)
