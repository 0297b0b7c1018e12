package mplx

import (
	"context"
	"errors"
	"io"
	"sync"

	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/types"
)

// ============================================================================
// streamState - 单流队列状态
// ============================================================================

// streamState 单个逻辑流的队列状态
//
// 一把互斥锁覆盖两个方向。reset 记录首个重置原因；gone 表示流已被
// CloseStream 回收，在途的等待者据此退出。
type streamState struct {
	id types.StreamID

	mu    sync.Mutex
	in    *buffer
	out   *buffer
	reset error
	gone  bool
}

func newStreamState(id types.StreamID) *streamState {
	return &streamState{
		id:  id,
		in:  newBuffer(),
		out: newBuffer(),
	}
}

// resetErr 构造重置错误（必须在锁内读取 s.reset 后调用）
func resetErr(cause error) error {
	return errors.Join(pkgif.ErrStreamReset, cause)
}

// ============================================================================
// 任务侧数据面
// ============================================================================

// DequeueInput 从指定流的入站队列取数据
//
// 返回块的所有权转移给调用方。eos 为 true 表示输入已结束（可能与
// 最后一块数据同时返回）。max 限制单次返回的字节数，max <= 0 表示
// 取整个队首块。
func (m *Mplx) DequeueInput(ctx context.Context, id types.StreamID, policy types.BlockingPolicy, max int) ([]byte, bool, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	for {
		switch {
		case s.gone:
			s.mu.Unlock()
			return nil, false, ErrStreamUnknown

		case s.reset != nil:
			cause := s.reset
			s.mu.Unlock()
			return nil, false, resetErr(cause)

		case m.closed.Load():
			s.mu.Unlock()
			return nil, false, pkgif.ErrMplxClosed

		case !s.in.empty():
			chunk := s.in.pop(max)
			eos := s.in.eos && s.in.empty()
			s.mu.Unlock()
			return chunk, eos, nil

		case s.in.eos:
			s.mu.Unlock()
			return nil, true, nil
		}

		if policy == types.PolicyNonBlocking {
			s.mu.Unlock()
			return nil, false, pkgif.ErrWouldBlock
		}

		wake := s.in.wake
		s.mu.Unlock()
		select {
		case <-wake:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
		s.mu.Lock()
	}
}

// EnqueueOutput 向指定流的出站队列写数据
//
// 数据被复制进队列。队列达到缓冲上限时阻塞，直到消费方腾出空间、
// 流被重置或 ctx 取消。空块是无害的空操作。
func (m *Mplx) EnqueueOutput(ctx context.Context, id types.StreamID, chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}

	s, err := m.lookup(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	for {
		switch {
		case s.gone:
			s.mu.Unlock()
			return ErrStreamUnknown

		case s.reset != nil:
			cause := s.reset
			s.mu.Unlock()
			return resetErr(cause)

		case m.closed.Load():
			s.mu.Unlock()
			return pkgif.ErrMplxClosed

		case s.out.eos:
			s.mu.Unlock()
			return ErrOutputClosed

		case m.hasRoom(s.out, len(chunk)):
			s.out.push(chunk)
			s.mu.Unlock()
			return nil
		}

		wake := s.out.wake
		s.mu.Unlock()
		select {
		case <-wake:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
	}
}

// ============================================================================
// 驱动侧数据面
// ============================================================================

// AppendInput 向指定流的入站队列灌入数据
//
// 数据被复制进队列。队列达到缓冲上限时阻塞，由此向传输侧施加背压。
// 空块是无害的空操作。
func (m *Mplx) AppendInput(ctx context.Context, id types.StreamID, p []byte) error {
	if len(p) == 0 {
		return nil
	}

	s, err := m.lookup(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	for {
		switch {
		case s.gone:
			s.mu.Unlock()
			return ErrStreamUnknown

		case s.reset != nil:
			cause := s.reset
			s.mu.Unlock()
			return resetErr(cause)

		case m.closed.Load():
			s.mu.Unlock()
			return pkgif.ErrMplxClosed

		case s.in.eos:
			s.mu.Unlock()
			return ErrInputClosed

		case m.hasRoom(s.in, len(p)):
			s.in.push(p)
			s.mu.Unlock()
			return nil
		}

		wake := s.in.wake
		s.mu.Unlock()
		select {
		case <-wake:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
	}
}

// CloseInput 标记指定流的输入结束
//
// 幂等。等待中的消费方会被唤醒并观察到 eos。
func (m *Mplx) CloseInput(id types.StreamID) error {
	s, err := m.lookup(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if !s.in.eos {
		s.in.eos = true
		s.in.notify()
	}
	s.mu.Unlock()
	return nil
}

// DequeueOutput 从指定流的出站队列取数据
//
// 阻塞直到有数据、输出结束（返回 io.EOF）、流被重置或 ctx 取消。
// 返回块的所有权转移给调用方。
func (m *Mplx) DequeueOutput(ctx context.Context, id types.StreamID) ([]byte, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for {
		switch {
		case s.gone:
			s.mu.Unlock()
			return nil, ErrStreamUnknown

		case s.reset != nil:
			cause := s.reset
			s.mu.Unlock()
			return nil, resetErr(cause)

		case m.closed.Load():
			s.mu.Unlock()
			return nil, pkgif.ErrMplxClosed

		case !s.out.empty():
			chunk := s.out.pop(0)
			s.mu.Unlock()
			return chunk, nil

		case s.out.eos:
			s.mu.Unlock()
			return nil, io.EOF
		}

		wake := s.out.wake
		s.mu.Unlock()
		select {
		case <-wake:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		s.mu.Lock()
	}
}

// CloseOutput 标记指定流的输出结束
//
// 幂等。排队中的数据仍可被 DequeueOutput 取完，之后返回 io.EOF。
func (m *Mplx) CloseOutput(id types.StreamID) error {
	s, err := m.lookup(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if !s.out.eos {
		s.out.eos = true
		s.out.notify()
	}
	s.mu.Unlock()
	return nil
}

// hasRoom 报告缓冲区是否还能容纳 n 字节
//
// 上限为 0 时不限制；空缓冲区总是可以接纳一个超限的大块，
// 避免单块超过上限时写入方永久阻塞。
func (m *Mplx) hasRoom(b *buffer, n int) bool {
	if m.maxBuf <= 0 {
		return true
	}
	if b.empty() {
		return true
	}
	return b.size+n <= m.maxBuf
}
