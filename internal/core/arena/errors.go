package arena

import "errors"

var (
	// ErrArenaDestroyed 分配区已销毁错误
	ErrArenaDestroyed = errors.New("arena destroyed")

	// ErrArenaLimitExceeded 分配区内存上限超出错误
	ErrArenaLimitExceeded = errors.New("arena memory limit exceeded")
)
