package bridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-streamtask/config"
	"github.com/dep2p/go-streamtask/internal/core/pipeline"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/types"
)

// ============================================================================
// Output - 输出桥接阶段（CONN_TO_MUX）
// ============================================================================

// Output 输出桥接阶段
//
// 把引擎的写出按块上限切分后推入多路复用器的出站队列。started
// 在首个字节成功入队后置位，任务据此判定"流从未产生输出"。
type Output struct {
	sessionID types.SessionID
	streamID  types.StreamID
	mplx      pkgif.Multiplexer
	maxChunk  int

	teardown     context.Context
	teardownStop context.CancelFunc

	mu      sync.Mutex
	started atomic.Bool
	closed  atomic.Bool
}

var _ pkgif.OutputStage = (*Output)(nil)

// NewOutput 创建输出桥接阶段
func NewOutput(b pipeline.Binding) *Output {
	maxChunk := b.WriteChunkSize
	if maxChunk <= 0 {
		maxChunk = config.DefaultTaskConfig().WriteChunkSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Output{
		sessionID:    b.SessionID,
		streamID:     b.StreamID,
		mplx:         b.Mplx,
		maxChunk:     maxChunk,
		teardown:     ctx,
		teardownStop: cancel,
	}
}

// Write 写出响应数据
//
// 长写入按块上限切分逐块入队，数据被队列复制，p 可立即复用。
// 被背压阻塞的写入在阶段拆除时返回 ErrStreamAborted。
func (o *Output) Write(p []byte) (int, error) {
	if o.closed.Load() {
		return 0, pkgif.ErrStreamAborted
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed.Load() {
		return 0, pkgif.ErrStreamAborted
	}

	written := 0
	for written < len(p) {
		chunk := p[written:]
		if len(chunk) > o.maxChunk {
			chunk = chunk[:o.maxChunk]
		}

		if err := o.mplx.EnqueueOutput(o.teardown, o.streamID, chunk); err != nil {
			if o.closed.Load() || errors.Is(err, context.Canceled) {
				err = pkgif.ErrStreamAborted
			}
			return written, err
		}
		o.started.Store(true)
		written += len(chunk)
	}
	return written, nil
}

// Started 报告是否已写出过任何数据
func (o *Output) Started() bool {
	return o.started.Load()
}

// Close 拆除阶段
//
// 幂等。唤醒被背压阻塞的写入，之后的 Write 返回 ErrStreamAborted。
func (o *Output) Close() error {
	if o.closed.Swap(true) {
		return nil
	}
	o.teardownStop()
	return nil
}
