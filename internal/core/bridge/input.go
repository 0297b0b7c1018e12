package bridge

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-streamtask/config"
	"github.com/dep2p/go-streamtask/internal/core/pipeline"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/types"
)

// ============================================================================
// Input - 输入桥接阶段（MUX_TO_CONN）
// ============================================================================

// Input 输入桥接阶段
//
// 把多路复用器的入站队列呈现为顺序字节流。游标 cur 保存已从队列
// 取出但尚未被引擎消费的数据，试探式读取只看游标不推进。
type Input struct {
	sessionID types.SessionID
	streamID  types.StreamID
	mplx      pkgif.Multiplexer
	maxChunk  int

	teardown     context.Context
	teardownStop context.CancelFunc

	mu  sync.Mutex
	cur []byte
	eos bool

	closed atomic.Bool
}

var _ pkgif.InputStage = (*Input)(nil)

// NewInput 创建输入桥接阶段
//
// 绑定中的 Initial/InitialEOS 作为游标初值：任务创建时已就绪的
// 首块数据无需再经队列绕行。Initial 的所有权转移给阶段。
func NewInput(b pipeline.Binding) *Input {
	maxChunk := b.ReadChunkSize
	if maxChunk <= 0 {
		maxChunk = config.DefaultTaskConfig().ReadChunkSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Input{
		sessionID:    b.SessionID,
		streamID:     b.StreamID,
		mplx:         b.Mplx,
		maxChunk:     maxChunk,
		teardown:     ctx,
		teardownStop: cancel,
		cur:          b.Initial,
		eos:          b.InitialEOS,
	}
}

// Read 按模式与阻塞策略读取最多 max 字节
//
// 消费式读取推进游标；试探式读取返回相同数据但不推进。输入结束后
// 返回 io.EOF。返回的切片在下一次消费式读取前有效。
func (in *Input) Read(ctx context.Context, mode types.ReadMode, policy types.BlockingPolicy, max int) ([]byte, error) {
	if in.closed.Load() {
		return nil, pkgif.ErrStreamAborted
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed.Load() {
		return nil, pkgif.ErrStreamAborted
	}

	if max <= 0 || max > in.maxChunk {
		max = in.maxChunk
	}

	// 游标空时从队列补充
	if len(in.cur) == 0 {
		if in.eos {
			return nil, io.EOF
		}

		rctx, cancel := in.mergeCtx(ctx)
		chunk, eos, err := in.mplx.DequeueInput(rctx, in.streamID, policy, max)
		cancel()
		if err != nil {
			if in.closed.Load() {
				return nil, pkgif.ErrStreamAborted
			}
			return nil, err
		}
		in.cur = chunk
		in.eos = eos

		if len(in.cur) == 0 {
			if in.eos {
				return nil, io.EOF
			}
			return nil, nil
		}
	}

	out := in.cur
	if len(out) > max {
		out = out[:max]
	}
	if mode == types.ReadBytes {
		in.cur = in.cur[len(out):]
	}
	return out, nil
}

// Close 拆除阶段
//
// 幂等。唤醒阻塞在队列上的读取，之后的调用返回 ErrStreamAborted。
func (in *Input) Close() error {
	if in.closed.Swap(true) {
		return nil
	}
	in.teardownStop()
	return nil
}

// mergeCtx 合并调用方上下文与拆除上下文
func (in *Input) mergeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(in.teardown, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}
