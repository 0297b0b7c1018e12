package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/libp2p/go-yamux/v4"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-streamtask/config"
	"github.com/dep2p/go-streamtask/internal/core/metrics"
	"github.com/dep2p/go-streamtask/internal/core/mplx"
	"github.com/dep2p/go-streamtask/internal/core/pipeline"
	"github.com/dep2p/go-streamtask/internal/core/task"
	"github.com/dep2p/go-streamtask/internal/core/workers"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/lib/log"
	"github.com/dep2p/go-streamtask/pkg/types"
)

var logger = log.Logger("session")

// ============================================================================
// 会话驱动
// ============================================================================

// Params 构造会话所需的依赖
type Params struct {
	// SessionID 会话标识
	SessionID types.SessionID

	// Conn 共享传输连接（必填）
	Conn net.Conn

	// Engine 处理引擎（必填），每个逻辑流调用一次
	Engine pkgif.Engine

	// Pool 执行器池（必填）
	Pool *workers.Pool

	// Registry 管道注册表，nil 时任务退回进程默认注册表
	Registry *pipeline.Registry

	// Reporter 指标上报，nil 时使用独立计数器
	Reporter metrics.Reporter

	// Config 全局配置，nil 时使用默认配置
	Config *config.Config
}

// Session 一条共享传输连接上的会话驱动
//
// 会话持有多路复用器的拥有者引用，为每个对端打开的 yamux 流装配
// 一个流任务，并在传输流与队列之间泵送两个方向的数据。
type Session struct {
	id        types.SessionID
	conn      net.Conn
	ys        *yamux.Session
	m         *mplx.Mplx
	pool      *workers.Pool
	engine    pkgif.Engine
	registry  *pipeline.Registry
	reporter  metrics.Reporter
	taskCfg   config.TaskConfig
	readChunk int

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	tasks map[types.StreamID]pkgif.Task

	wg        sync.WaitGroup
	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

// New 在给定传输连接上建立服务端会话
func New(p Params) (*Session, error) {
	if p.Conn == nil {
		return nil, ErrNilConn
	}
	if p.Engine == nil {
		return nil, ErrNilEngine
	}
	if p.Pool == nil {
		return nil, ErrNilPool
	}

	cfg := config.NewConfig()
	if p.Config != nil {
		cfg = p.Config
	}
	reporter := p.Reporter
	if reporter == nil {
		reporter = metrics.NewTaskCounter()
	}

	ys, err := yamux.Server(p.Conn, yamuxConfig(&cfg.Session), nil)
	if err != nil {
		return nil, fmt.Errorf("establish yamux session: %w", err)
	}

	readChunk := cfg.Session.ReadChunkSize
	if readChunk <= 0 {
		readChunk = config.DefaultSessionConfig().ReadChunkSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:        p.SessionID,
		conn:      p.Conn,
		ys:        ys,
		m:         mplx.New(p.SessionID, &cfg.Mplx, reporter),
		pool:      p.Pool,
		engine:    p.Engine,
		registry:  p.Registry,
		reporter:  reporter,
		taskCfg:   cfg.Task,
		readChunk: readChunk,
		ctx:       ctx,
		cancel:    cancel,
		tasks:     make(map[types.StreamID]pkgif.Task),
		done:      make(chan struct{}),
	}

	logger.Debug("会话已建立",
		"sessionID", p.SessionID,
		"remote", p.Conn.RemoteAddr())
	return s, nil
}

// ID 返回会话标识
func (s *Session) ID() types.SessionID {
	return s.id
}

// ActiveStreams 返回当前在途逻辑流数
func (s *Session) ActiveStreams() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Done 返回会话完全收尾后关闭的通道
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Serve 运行接受循环，为每个入站逻辑流启动处理
//
// 阻塞直到会话关闭或传输失败。对端正常关闭时返回 nil。
func (s *Session) Serve() error {
	logger.Info("会话开始服务", "sessionID", s.id)
	for {
		ys, err := s.ys.AcceptStream()
		if err != nil {
			if s.closed.Load() || isSessionEnd(err) {
				logger.Debug("会话接受循环结束", "sessionID", s.id, "err", err)
				_ = s.Close()
				return nil
			}
			logger.Warn("接受逻辑流失败", "sessionID", s.id, "err", err)
			_ = s.Close()
			return err
		}

		s.wg.Add(1)
		go s.handleStream(ys)
	}
}

// Close 关闭会话
//
// 中止所有在途任务，等待全部逻辑流收尾，然后释放多路复用器的
// 拥有者引用并关闭传输连接。幂等，可与 Serve 并发调用。
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.cancel()

		s.mu.Lock()
		inflight := make([]pkgif.Task, 0, len(s.tasks))
		for _, t := range s.tasks {
			inflight = append(inflight, t)
		}
		s.mu.Unlock()
		for _, t := range inflight {
			t.Abort()
		}

		_ = s.ys.Close()
		s.wg.Wait()
		_ = s.m.Close()
		_ = s.conn.Close()
		close(s.done)
		logger.Info("会话已关闭", "sessionID", s.id)
	})
	return nil
}

// ============================================================================
// 逻辑流处理
// ============================================================================

// handleStream 驱动单个逻辑流：装配任务、提交执行、泵送数据、收尾
func (s *Session) handleStream(ys *yamux.Stream) {
	defer s.wg.Done()

	id := types.StreamID(ys.StreamID())
	logger.Debug("接受逻辑流", "sessionID", s.id, "streamID", id)

	if err := s.m.OpenStream(id); err != nil {
		logger.Warn("打开流队列失败", "sessionID", s.id, "streamID", id, "err", err)
		_ = ys.Reset()
		return
	}

	initial, eos, err := s.readInitial(ys)
	if err != nil {
		logger.Debug("读取首块失败", "sessionID", s.id, "streamID", id, "err", err)
		_ = ys.Reset()
		_ = s.m.CloseStream(id)
		return
	}

	tk, err := task.Create(task.CreateParams{
		SessionID:  s.id,
		StreamID:   id,
		Mplx:       s.m,
		Registry:   s.registry,
		Config:     &s.taskCfg,
		Initial:    initial,
		InitialEOS: eos,
	})
	if err != nil {
		// 创建失败已在队列侧报告复位，把复位透传给对端
		logger.Warn("创建流任务失败", "sessionID", s.id, "streamID", id, "err", err)
		_ = ys.Reset()
		_ = s.m.CloseStream(id)
		return
	}
	s.reporter.LogTaskCreated(s.id)
	s.track(id, tk)
	defer s.untrack(id)

	taskDone := make(chan struct{})
	err = s.pool.Submit(s.ctx, tk, s.engine, func(error) {
		// 引擎返回后关闭输出队列，出站泵排干剩余数据后观察到 EOF
		_ = s.m.CloseOutput(id)
		if tk.Aborted() {
			s.reporter.LogTaskAborted(s.id)
		} else {
			s.reporter.LogTaskCompleted(s.id)
		}
		close(taskDone)
	})
	if err != nil {
		logger.Warn("提交流任务失败", "sessionID", s.id, "streamID", id, "err", err)
		_ = tk.Destroy()
		_ = ys.Reset()
		_ = s.m.CloseStream(id)
		return
	}

	pumps, pctx := errgroup.WithContext(s.ctx)
	pumps.Go(func() error {
		perr := s.pumpInbound(pctx, ys, id)
		if perr != nil {
			// 传输读失败：对端异常断流，中止任务解除引擎阻塞
			tk.Abort()
		}
		return perr
	})
	pumps.Go(func() error {
		perr := s.pumpOutbound(pctx, ys, id)
		if perr != nil {
			tk.Abort()
		}
		return perr
	})

	<-taskDone

	// 任务完成后不再消费入站数据，断开读侧让入站泵退出
	_ = s.m.CloseInput(id)
	_ = ys.CloseRead()
	if perr := pumps.Wait(); perr != nil {
		logger.Debug("流泵送结束", "sessionID", s.id, "streamID", id, "err", perr)
	}

	_ = ys.Close()
	if derr := tk.Destroy(); derr != nil {
		logger.Warn("销毁流任务失败", "sessionID", s.id, "streamID", id, "err", derr)
	}
	_ = s.m.CloseStream(id)
	logger.Debug("逻辑流收尾完成", "sessionID", s.id, "streamID", id)
}

// readInitial 读取流的首块数据，随任务创建一并交付
//
// 对端在首块之前就半关闭时返回 eos=true，任务直接以空输入运行。
func (s *Session) readInitial(ys *yamux.Stream) ([]byte, bool, error) {
	buf := make([]byte, s.readChunk)
	n, err := ys.Read(buf)
	if n > 0 {
		s.reporter.LogBytesIn(int64(n), s.id)
	}
	switch {
	case err == nil:
		return buf[:n:n], false, nil
	case errors.Is(err, io.EOF):
		return buf[:n:n], true, nil
	default:
		return nil, false, err
	}
}

// ============================================================================
// 数据泵
// ============================================================================

// pumpInbound 把 yamux 流的入站字节灌进多路复用器队列
//
// 对端半关闭（EOF）与流复位都按输入结束处理：关闭入站队列并返回
// nil，引擎从输入阶段读到 EOF。队列侧正常收尾返回 nil；其余传输层
// 错误原样返回。
func (s *Session) pumpInbound(ctx context.Context, ys *yamux.Stream, id types.StreamID) error {
	buf := make([]byte, s.readChunk)
	for {
		n, err := ys.Read(buf)
		if n > 0 {
			s.reporter.LogBytesIn(int64(n), s.id)
			if aerr := s.m.AppendInput(ctx, id, buf[:n]); aerr != nil {
				if isQueueEnd(aerr) {
					return nil
				}
				return aerr
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, yamux.ErrStreamReset):
			// 对端半关闭、对端复位或本端停读，入站都不会再有数据
			if cerr := s.m.CloseInput(id); cerr != nil && !isQueueEnd(cerr) {
				return cerr
			}
			return nil
		default:
			return err
		}
	}
}

// pumpOutbound 把多路复用器队列的出站字节写回 yamux 流
//
// 输出排干（EOF）时向对端半关闭写侧；任务侧重置转成对端 RST；
// 传输层错误原样返回。
func (s *Session) pumpOutbound(ctx context.Context, ys *yamux.Stream, id types.StreamID) error {
	for {
		chunk, err := s.m.DequeueOutput(ctx, id)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return ys.CloseWrite()
		case errors.Is(err, pkgif.ErrStreamReset):
			logger.Debug("逻辑流被重置", "sessionID", s.id, "streamID", id, "cause", err)
			_ = ys.Reset()
			return nil
		case isQueueEnd(err):
			return nil
		default:
			return err
		}

		if _, werr := ys.Write(chunk); werr != nil {
			return werr
		}
		s.reporter.LogBytesOut(int64(len(chunk)), s.id)
	}
}

// isQueueEnd 报告队列操作的错误是否属于正常收尾
func isQueueEnd(err error) bool {
	return errors.Is(err, pkgif.ErrStreamReset) ||
		errors.Is(err, pkgif.ErrMplxClosed) ||
		errors.Is(err, mplx.ErrStreamUnknown) ||
		errors.Is(err, mplx.ErrInputClosed) ||
		errors.Is(err, context.Canceled)
}

// ============================================================================
// 在途任务登记
// ============================================================================

func (s *Session) track(id types.StreamID, t pkgif.Task) {
	s.mu.Lock()
	s.tasks[id] = t
	s.mu.Unlock()
}

func (s *Session) untrack(id types.StreamID) {
	s.mu.Lock()
	delete(s.tasks, id)
	s.mu.Unlock()
}
