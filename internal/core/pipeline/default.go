package pipeline

import "sync"

// 进程默认注册表
var (
	defaultMu  sync.Mutex
	defaultReg *Registry
)

// EnsureDefault 确保进程默认注册表已初始化
//
// 首次调用创建注册表并依次执行注册函数，任一注册失败则整体放弃，
// 默认注册表保持未初始化。后续调用直接返回既有注册表，注册函数
// 被忽略。
func EnsureDefault(register ...func(*Registry) error) (*Registry, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultReg != nil {
		return defaultReg, nil
	}

	r := NewRegistry()
	for _, fn := range register {
		if err := fn(r); err != nil {
			return nil, err
		}
	}
	defaultReg = r
	return r, nil
}

// Default 返回进程默认注册表，未初始化时为 nil
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultReg
}

// ResetDefault 清除进程默认注册表
//
// 仅供测试在用例之间恢复初始状态使用。
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultReg = nil
}
