package mplx

import (
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-streamtask/config"
	"github.com/dep2p/go-streamtask/internal/core/metrics"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/lib/log"
	"github.com/dep2p/go-streamtask/pkg/types"
)

var logger = log.Logger("core/mplx")

// ============================================================================
// Mplx - 会话内流多路复用器
// ============================================================================

// Mplx 会话内的流多路复用器
//
// 持有会话中所有逻辑流的入站/出站队列。创建时自带一个所有者引用，
// Close 归还该引用；任务通过 Retain 获取额外引用。引用计数归零后
// Done 通道关闭，此时才允许释放承载它的会话资源。
type Mplx struct {
	sessionID types.SessionID
	maxBuf    int // 单流单方向的缓冲上限（字节），0 表示不限制

	reporter metrics.Reporter // 可为 nil

	mu      sync.Mutex
	streams map[types.StreamID]*streamState

	refs      atomic.Int32
	closed    atomic.Bool
	closeOnce sync.Once
	doneOnce  sync.Once
	done      chan struct{}
}

var _ pkgif.Multiplexer = (*Mplx)(nil)

// New 创建多路复用器
//
// cfg 为 nil 时使用默认配置；reporter 为 nil 时不上报指标。
func New(sessionID types.SessionID, cfg *config.MplxConfig, reporter metrics.Reporter) *Mplx {
	maxBuf := config.DefaultMplxConfig().MaxStreamBufferBytes
	if cfg != nil {
		maxBuf = cfg.MaxStreamBufferBytes
	}

	m := &Mplx{
		sessionID: sessionID,
		maxBuf:    maxBuf,
		reporter:  reporter,
		streams:   make(map[types.StreamID]*streamState),
		done:      make(chan struct{}),
	}
	m.refs.Store(1) // 所有者引用
	return m
}

// SessionID 返回所属会话标识
func (m *Mplx) SessionID() types.SessionID {
	return m.sessionID
}

// Streams 返回当前打开的流数量
func (m *Mplx) Streams() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.streams)
}

// Retain 获取一个共享所有权句柄
func (m *Mplx) Retain() pkgif.Ref {
	m.refs.Add(1)
	return &ref{m: m}
}

// release 归还一个引用，计数归零时关闭 Done 通道
func (m *Mplx) release() {
	if m.refs.Add(-1) == 0 {
		m.doneOnce.Do(func() {
			close(m.done)
		})
	}
}

// Done 返回引用计数归零时关闭的通道
func (m *Mplx) Done() <-chan struct{} {
	return m.done
}

// OpenStream 登记一个新的逻辑流
func (m *Mplx) OpenStream(id types.StreamID) error {
	if m.closed.Load() {
		return pkgif.ErrMplxClosed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.streams[id]; ok {
		return ErrStreamExists
	}
	m.streams[id] = newStreamState(id)

	logger.Debug("流已打开", "stream", types.LogID(m.sessionID, id))
	return nil
}

// CloseStream 回收逻辑流的队列状态
//
// 等待中的阻塞操作会被唤醒并返回 ErrStreamUnknown。
func (m *Mplx) CloseStream(id types.StreamID) error {
	m.mu.Lock()
	s := m.streams[id]
	delete(m.streams, id)
	m.mu.Unlock()

	if s == nil {
		return ErrStreamUnknown
	}

	s.mu.Lock()
	s.gone = true
	s.in.notify()
	s.out.notify()
	s.mu.Unlock()

	logger.Debug("流已回收", "stream", types.LogID(m.sessionID, id))
	return nil
}

// ResetStream 报告某流无法产生结果
//
// 每流只记录首次重置；cause 为 nil 时规范化为 ErrNoOutput。
// 对未知流的重置是无害的空操作。
func (m *Mplx) ResetStream(id types.StreamID, cause error) {
	if cause == nil {
		cause = pkgif.ErrNoOutput
	}

	m.mu.Lock()
	s := m.streams[id]
	m.mu.Unlock()
	if s == nil {
		return
	}

	s.mu.Lock()
	first := s.reset == nil
	if first {
		s.reset = cause
		s.in.notify()
		s.out.notify()
	}
	s.mu.Unlock()

	if first {
		logger.Debug("流已重置", "stream", types.LogID(m.sessionID, id), "cause", cause)
		if m.reporter != nil {
			m.reporter.LogStreamReset(m.sessionID)
		}
	}
}

// Close 关闭多路复用器
//
// 唤醒所有等待者（后续操作返回 ErrMplxClosed）并归还所有者引用。
// 幂等。注意 Close 不等待引用计数归零，需要同步时使用 Done。
func (m *Mplx) Close() error {
	m.closeOnce.Do(func() {
		m.closed.Store(true)

		m.mu.Lock()
		for _, s := range m.streams {
			s.mu.Lock()
			s.in.notify()
			s.out.notify()
			s.mu.Unlock()
		}
		m.mu.Unlock()

		logger.Debug("多路复用器已关闭", "session", m.sessionID)
		m.release()
	})
	return nil
}

// lookup 查找流状态
func (m *Mplx) lookup(id types.StreamID) (*streamState, error) {
	if m.closed.Load() {
		return nil, pkgif.ErrMplxClosed
	}

	m.mu.Lock()
	s := m.streams[id]
	m.mu.Unlock()

	if s == nil {
		return nil, ErrStreamUnknown
	}
	return s, nil
}
