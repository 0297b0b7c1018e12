package mplx

import (
	"sync"

	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
)

// ref 多路复用器的共享所有权句柄
//
// Release 幂等：无论拆除路径上被调用多少次，引用计数只减一次。
type ref struct {
	m    *Mplx
	once sync.Once
}

var _ pkgif.Ref = (*ref)(nil)

// Release 释放句柄
func (r *ref) Release() {
	r.once.Do(func() {
		r.m.release()
	})
}
