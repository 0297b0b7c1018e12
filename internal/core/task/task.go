package task

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/dep2p/go-streamtask/config"
	"github.com/dep2p/go-streamtask/internal/core/arena"
	"github.com/dep2p/go-streamtask/internal/core/connctx"
	"github.com/dep2p/go-streamtask/internal/core/pipeline"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/lib/log"
	"github.com/dep2p/go-streamtask/pkg/types"
)

var logger = log.Logger("core/task")

// ============================================================================
// StreamTask - 流任务
// ============================================================================

// StreamTask 流任务
//
// 一个逻辑流的执行单元。持有任务竞技场、合成连接上下文、一对桥接
// 阶段与多路复用器句柄。
type StreamTask struct {
	sessionID types.SessionID
	streamID  types.StreamID

	mplx  pkgif.Multiplexer
	ref   pkgif.Ref
	arena *arena.Arena
	conn  *connctx.Conn

	input  pkgif.InputStage
	output pkgif.OutputStage

	state     atomic.Int32 // types.RunState
	aborted   atomic.Bool
	destroyed atomic.Bool
}

var _ pkgif.Task = (*StreamTask)(nil)

// CreateParams 任务创建参数
type CreateParams struct {
	SessionID types.SessionID
	StreamID  types.StreamID

	// Mplx 多路复用器，必填
	Mplx pkgif.Multiplexer

	// Registry 管道注册表，nil 时使用进程默认注册表
	Registry *pipeline.Registry

	// Config 任务配置，nil 时使用默认配置
	Config *config.TaskConfig

	// Initial 创建时已就绪的首块输入数据，所有权转移给任务
	Initial []byte

	// InitialEOS 输入在首块之后即告结束
	InitialEOS bool
}

// Create 创建流任务
//
// 按序获取多路复用器句柄、建立竞技场、预留首块记账、创建合成连接
// 并装配管道阶段。任何一步失败都会向多路复用器发出恰好一次流重置、
// 释放句柄、销毁竞技场，然后返回 nil 任务与错误。
func Create(p CreateParams) (*StreamTask, error) {
	if p.Mplx == nil {
		return nil, ErrNilMultiplexer
	}

	reg := p.Registry
	if reg == nil {
		reg = pipeline.Default()
	}
	if reg == nil {
		return nil, ErrNoRegistry
	}

	cfg := config.DefaultTaskConfig()
	if p.Config != nil {
		cfg = *p.Config
	}

	// 句柄先于一切分配获取，失败路径上恰好释放一次
	ref := p.Mplx.Retain()
	a := arena.New(cfg.ArenaLimitBytes)

	fail := func(err error) (*StreamTask, error) {
		p.Mplx.ResetStream(p.StreamID, err)
		ref.Release()
		_ = a.Destroy()
		return nil, err
	}

	// 首块输入计入竞技场记账，随竞技场销毁归还
	initialSize := len(p.Initial)
	if err := a.Reserve(initialSize); err != nil {
		return fail(fmt.Errorf("reserve initial chunk: %w", err))
	}
	_ = a.OnDestroy(func() error {
		a.Release(initialSize)
		return nil
	})

	conn, err := connctx.New(a, p.SessionID, p.StreamID)
	if err != nil {
		return fail(err)
	}

	in, out, err := reg.Install(conn, pipeline.Binding{
		SessionID:      p.SessionID,
		StreamID:       p.StreamID,
		Mplx:           p.Mplx,
		Initial:        p.Initial,
		InitialEOS:     p.InitialEOS,
		ReadChunkSize:  cfg.ReadChunkSize,
		WriteChunkSize: cfg.WriteChunkSize,
	})
	if err != nil {
		return fail(err)
	}

	t := &StreamTask{
		sessionID: p.SessionID,
		streamID:  p.StreamID,
		mplx:      p.Mplx,
		ref:       ref,
		arena:     a,
		conn:      conn,
		input:     in,
		output:    out,
	}

	logger.Debug("任务已创建", "stream", t.LogID(), "initial", initialSize, "eos", p.InitialEOS)
	return t, nil
}

// ============================================================================
// 标识与状态访问器
// ============================================================================

// SessionID 返回所属会话标识
func (t *StreamTask) SessionID() types.SessionID { return t.sessionID }

// StreamID 返回逻辑流标识
func (t *StreamTask) StreamID() types.StreamID { return t.streamID }

// LogID 返回 "会话-流" 日志关联标识
func (t *StreamTask) LogID() string { return types.LogID(t.sessionID, t.streamID) }

// State 返回运行状态
func (t *StreamTask) State() types.RunState {
	return types.RunState(t.state.Load())
}

// SetState 设置运行状态
func (t *StreamTask) SetState(s types.RunState) {
	t.state.Store(int32(s))
}

// IsRunning 报告任务是否正在执行
func (t *StreamTask) IsRunning() bool {
	return t.State() == types.RunRunning
}

// Aborted 报告任务是否已中止
func (t *StreamTask) Aborted() bool {
	return t.aborted.Load()
}

// ============================================================================
// 执行
// ============================================================================

// Run 在给定引擎上同步执行一次任务
//
// 前置条件：任务未被中止、未被销毁。执行期装配合成端点绑定到连接，
// 引擎返回后解绑并释放。引擎错误被记录而不上抛——响应可能已部分
// 写出，流的命运由无输出判定决定：输出阶段从未写出数据时发出一次
// 流重置。端点装配失败作为错误返回（此时同样重置流）。
func (t *StreamTask) Run(ctx context.Context, engine pkgif.Engine) error {
	if t.destroyed.Load() {
		return pkgif.ErrTaskDestroyed
	}
	if t.aborted.Load() {
		return pkgif.ErrTaskAborted
	}
	if engine == nil {
		return ErrNilEngine
	}

	ep, err := connctx.NewEndpoint(t.arena, t.sessionID, t.streamID)
	if err != nil {
		t.mplx.ResetStream(t.streamID, err)
		return err
	}
	if err := t.conn.BindEndpoint(ep); err != nil {
		_ = ep.Close()
		t.mplx.ResetStream(t.streamID, err)
		return err
	}
	defer func() {
		t.conn.UnbindEndpoint()
		_ = ep.Close()
	}()

	logger.Debug("任务开始执行", "stream", t.LogID())
	engErr := engine.Process(ctx, t.conn)
	if engErr != nil {
		logger.Debug("处理引擎返回错误", "stream", t.LogID(), "err", engErr)
	}

	// 无输出后置条件：从未产生输出的流重置一次，避免永久悬挂
	if !t.output.Started() {
		cause := engErr
		if cause == nil {
			cause = pkgif.ErrNoOutput
		}
		t.mplx.ResetStream(t.streamID, cause)
	}

	logger.Debug("任务执行结束", "stream", t.LogID(), "started", t.output.Started())
	return nil
}

// ============================================================================
// 中止与销毁
// ============================================================================

// Abort 中止任务
//
// 置中止标志并拆除两个桥接阶段；竞技场与连接上下文保留到 Destroy。
// 幂等，可与进行中的 Run 并发调用。
func (t *StreamTask) Abort() {
	if t.aborted.Swap(true) {
		return
	}

	logger.Debug("任务中止", "stream", t.LogID())
	_ = t.input.Close()
	_ = t.output.Close()
}

// Destroy 销毁任务
//
// 拆除残余阶段、释放多路复用器句柄、整体销毁竞技场。不得与执行中
// 的 Run 并发调用；重复销毁返回 ErrTaskDestroyed。
func (t *StreamTask) Destroy() error {
	if t.destroyed.Swap(true) {
		return pkgif.ErrTaskDestroyed
	}

	logger.Debug("任务销毁", "stream", t.LogID())

	var err error
	err = multierr.Append(err, t.input.Close())
	err = multierr.Append(err, t.output.Close())
	t.ref.Release()
	err = multierr.Append(err, t.arena.Destroy())
	return err
}
