package arena

import (
	"sync"

	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
)

// poolMaxCap 空闲列表保留的单个缓冲区容量上限
//
// 超过该容量的缓冲区归还后直接交给 GC，避免大块内存滞留。
const poolMaxCap = 64 * 1024

// poolMaxFree 空闲列表保留的缓冲区数量上限
const poolMaxFree = 8

// BufferPool 分配区缓冲分配器
//
// Get/Put 的内存计入所属分配区的记账；小块缓冲在任务内复用，
// 减少处理引擎构造响应时的重复分配。
type BufferPool struct {
	arena *Arena

	mu   sync.Mutex
	free [][]byte
}

// 确保实现接口
var _ pkgif.BufferAllocator = (*BufferPool)(nil)

// newBufferPool 创建缓冲分配器
func newBufferPool(a *Arena) *BufferPool {
	return &BufferPool{arena: a}
}

// Get 分配 n 字节缓冲区
//
// 内存计入分配区记账；超过上限返回 ErrArenaLimitExceeded，
// 分配区已销毁返回 ErrArenaDestroyed。
func (p *BufferPool) Get(n int) ([]byte, error) {
	if n < 0 {
		n = 0
	}
	if err := p.arena.Reserve(n); err != nil {
		return nil, err
	}

	// 复用空闲缓冲
	p.mu.Lock()
	for i := len(p.free) - 1; i >= 0; i-- {
		if cap(p.free[i]) >= n {
			buf := p.free[i]
			p.free = append(p.free[:i], p.free[i+1:]...)
			p.mu.Unlock()
			return buf[:n], nil
		}
	}
	p.mu.Unlock()

	return make([]byte, n), nil
}

// Put 归还缓冲区
//
// 按缓冲区当前长度释放记账。归还后调用方不得再使用该缓冲区。
func (p *BufferPool) Put(buf []byte) {
	if buf == nil {
		return
	}
	p.arena.Release(len(buf))

	if cap(buf) == 0 || cap(buf) > poolMaxCap || p.arena.Destroyed() {
		return
	}

	p.mu.Lock()
	if len(p.free) < poolMaxFree {
		p.free = append(p.free, buf[:0])
	}
	p.mu.Unlock()
}

// drain 清空空闲列表（分配区销毁时调用）
func (p *BufferPool) drain() {
	p.mu.Lock()
	p.free = nil
	p.mu.Unlock()
}
