package arena

import (
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/dep2p/go-streamtask/pkg/lib/log"
)

var logger = log.Logger("core/arena")

// Arena 任务域分配区
//
// 为单个任务提供内存记账、缓冲分配与 LIFO 清理登记。
// 销毁恰好执行一次，之后进入毒化状态。
type Arena struct {
	limit int64 // 内存上限（字节），0 表示不限制

	used      atomic.Int64 // 当前记账内存
	destroyed atomic.Bool  // 毒化标志

	destroyOnce sync.Once

	mu       sync.Mutex
	cleanups []func() error // 按登记顺序存放，销毁时逆序执行

	buffers *BufferPool
}

// New 创建分配区
//
// limit 为内存记账上限（字节），0 表示不限制。
func New(limit int64) *Arena {
	a := &Arena{limit: limit}
	a.buffers = newBufferPool(a)
	return a
}

// Reserve 预留内存
//
// 超过上限返回 ErrArenaLimitExceeded，已销毁返回 ErrArenaDestroyed。
func (a *Arena) Reserve(n int) error {
	if a.destroyed.Load() {
		return ErrArenaDestroyed
	}
	if n <= 0 {
		return nil
	}

	for {
		current := a.used.Load()
		next := current + int64(n)
		if a.limit > 0 && next > a.limit {
			return ErrArenaLimitExceeded
		}
		if a.used.CompareAndSwap(current, next) {
			return nil
		}
	}
}

// Release 释放内存
//
// 计数不会降到 0 以下。
func (a *Arena) Release(n int) {
	if n <= 0 {
		return
	}

	for {
		current := a.used.Load()
		next := current - int64(n)
		if next < 0 {
			next = 0
		}
		if a.used.CompareAndSwap(current, next) {
			return
		}
	}
}

// Used 返回当前记账内存（字节）
func (a *Arena) Used() int64 {
	return a.used.Load()
}

// Limit 返回内存上限（字节），0 表示不限制
func (a *Arena) Limit() int64 {
	return a.limit
}

// Buffers 返回分配区的缓冲分配器
func (a *Arena) Buffers() *BufferPool {
	return a.buffers
}

// OnDestroy 登记清理函数
//
// Destroy 时按登记逆序（LIFO）执行。已销毁的分配区拒绝登记。
func (a *Arena) OnDestroy(fn func() error) error {
	if fn == nil {
		return nil
	}
	if a.destroyed.Load() {
		return ErrArenaDestroyed
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.destroyed.Load() {
		return ErrArenaDestroyed
	}
	a.cleanups = append(a.cleanups, fn)
	return nil
}

// Destroy 销毁分配区
//
// 按 LIFO 顺序执行全部清理函数并聚合其错误，随后毒化分配区：
// 之后的 Reserve/OnDestroy/Buffers().Get 均返回 ErrArenaDestroyed。
// 重复调用是无害的空操作。
func (a *Arena) Destroy() error {
	var err error
	a.destroyOnce.Do(func() {
		a.destroyed.Store(true)

		a.mu.Lock()
		cleanups := a.cleanups
		a.cleanups = nil
		a.mu.Unlock()

		// LIFO：后登记的资源先拆
		for i := len(cleanups) - 1; i >= 0; i-- {
			err = multierr.Append(err, cleanups[i]())
		}

		a.buffers.drain()

		if used := a.used.Load(); used != 0 {
			logger.Debug("分配区销毁时仍有未释放记账", "used", used)
			a.used.Store(0)
		}
	})
	return err
}

// Destroyed 报告分配区是否已销毁
func (a *Arena) Destroyed() bool {
	return a.destroyed.Load()
}
