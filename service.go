package streamtask

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-streamtask/internal/core/metrics"
	"github.com/dep2p/go-streamtask/internal/core/pipeline"
	"github.com/dep2p/go-streamtask/internal/core/workers"
	"github.com/dep2p/go-streamtask/internal/session"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/lib/log"
	"github.com/dep2p/go-streamtask/pkg/types"
)

var logger = log.Logger("streamtask")

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期常量
// ════════════════════════════════════════════════════════════════════════════

const (
	// initializeTimeout 初始化超时（Fx App Start）
	initializeTimeout = 30 * time.Second

	// shutdownTimeout 关闭超时（Fx App Stop）
	shutdownTimeout = 10 * time.Second
)

// ════════════════════════════════════════════════════════════════════════════
//                              服务门面
// ════════════════════════════════════════════════════════════════════════════

// Service 流任务服务
//
// Service 是使用本库的主入口。它是一个门面（Facade），聚合执行器池、
// 指标上报与管道注册表，把每条接入的传输连接包装成会话驱动：
//
//	服务 Service
//	  └── 会话 Session（每条传输连接一个）
//	        └── 流任务 Task（每个逻辑流一个，跑在执行器池中）
//	              └── 处理引擎 Engine（用户提供）
//
// 使用示例：
//
//	svc, err := streamtask.New(
//	    streamtask.WithEngine(myEngine),
//	    streamtask.WithWorkerPoolSize(32),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := svc.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	// 接入监听器，或逐条接入连接
//	go svc.ServeListener(ln)
type Service struct {
	// opts 服务配置
	opts *options

	// app Fx 应用
	app *fx.App

	// 核心组件（由 Fx 注入）
	pool     *workers.Pool
	reporter metrics.Reporter
	registry *pipeline.Registry

	// engine 流处理引擎
	engine pkgif.Engine

	// nextSession 会话标识分配器
	nextSession atomic.Int64

	// 生命周期状态
	mu      sync.RWMutex
	state   ServiceState
	started bool
	closed  bool

	// 在途会话
	sessMu   sync.Mutex
	sessions map[types.SessionID]*session.Session
}

// ════════════════════════════════════════════════════════════════════════════
//                              构造函数
// ════════════════════════════════════════════════════════════════════════════

// New 创建流任务服务
//
// 创建服务但不启动，需要调用 Start() 启动。处理引擎是必填项，
// 通过 WithEngine 或 WithEngineFunc 提供。
func New(opts ...Option) (*Service, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	if o.engine == nil {
		return nil, ErrNilEngine
	}

	svc := &Service{
		opts:     o,
		engine:   o.engine,
		state:    StateIdle,
		sessions: make(map[types.SessionID]*session.Session),
	}

	app, err := buildFxApp(o, svc)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	svc.app = app
	return svc, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期管理
// ════════════════════════════════════════════════════════════════════════════

// Start 启动服务
//
// 启动 Fx 应用并进入运行状态。可以 Start/Stop 多次，Close 之后
// 不能再启动。
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}

	s.state = StateInitializing
	logger.Info("正在启动流任务服务")

	initCtx, cancel := context.WithTimeout(ctx, initializeTimeout)
	defer cancel()
	if err := s.app.Start(initCtx); err != nil {
		s.state = StateIdle
		logger.Error("服务启动失败", "err", err)
		return fmt.Errorf("initialize failed: %w", err)
	}

	s.started = true
	s.state = StateRunning
	logger.Info("流任务服务已启动", "poolSize", s.pool.Size())
	return nil
}

// Stop 停止服务
//
// 关闭所有在途会话并停止 Fx 应用。停止后可以重新 Start。
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.state = StateStopping
	s.mu.Unlock()

	logger.Info("正在停止流任务服务")
	s.closeAllSessions()

	stopCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	err := s.app.Stop(stopCtx)

	s.mu.Lock()
	s.started = false
	s.state = StateStopped
	s.mu.Unlock()

	if err != nil {
		logger.Error("服务停止失败", "err", err)
		return fmt.Errorf("stop failed: %w", err)
	}
	logger.Info("流任务服务已停止")
	return nil
}

// Close 关闭服务
//
// 等价于 Stop 并永久关闭，幂等。关闭后服务不可再启动。
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	wasStarted := s.started
	s.mu.Unlock()

	if !wasStarted {
		s.mu.Lock()
		s.state = StateStopped
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.state = StateStopping
	s.mu.Unlock()

	s.closeAllSessions()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.app.Stop(ctx)

	s.mu.Lock()
	s.started = false
	s.state = StateStopped
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}
	logger.Info("流任务服务已关闭")
	return nil
}

// State 返回服务当前状态
func (s *Service) State() ServiceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ════════════════════════════════════════════════════════════════════════════
//                              连接接入
// ════════════════════════════════════════════════════════════════════════════

// ServeConn 接入一条传输连接
//
// 为连接建立会话并在后台驱动，返回分配的会话标识。连接的
// 生命周期交给服务管理：会话结束时连接被关闭。
func (s *Service) ServeConn(conn net.Conn) (SessionID, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return 0, ErrServiceClosed
	}
	if !s.started {
		s.mu.RUnlock()
		return 0, ErrNotStarted
	}
	s.mu.RUnlock()

	id := types.SessionID(s.nextSession.Add(1))
	sess, err := session.New(session.Params{
		SessionID: id,
		Conn:      conn,
		Engine:    s.engine,
		Pool:      s.pool,
		Registry:  s.registry,
		Reporter:  s.reporter,
		Config:    s.opts.config,
	})
	if err != nil {
		return 0, fmt.Errorf("establish session: %w", err)
	}

	s.sessMu.Lock()
	s.sessions[id] = sess
	s.sessMu.Unlock()

	go func() {
		if serr := sess.Serve(); serr != nil {
			logger.Warn("会话异常结束", "sessionID", id, "err", serr)
		}
		s.sessMu.Lock()
		delete(s.sessions, id)
		s.sessMu.Unlock()
	}()

	logger.Debug("接入传输连接", "sessionID", id, "remote", conn.RemoteAddr())
	return id, nil
}

// ServeListener 在监听器上接受传输连接并逐条接入
//
// 阻塞直到监听器关闭或服务关闭，正常终止返回 nil。
func (s *Service) ServeListener(ln net.Listener) error {
	logger.Info("开始接受传输连接", "addr", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.RLock()
			closed := s.closed
			s.mu.RUnlock()
			if closed || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		if _, serr := s.ServeConn(conn); serr != nil {
			logger.Warn("接入连接失败", "remote", conn.RemoteAddr(), "err", serr)
			_ = conn.Close()
		}
	}
}

// CloseSession 关闭指定会话
func (s *Service) CloseSession(id SessionID) error {
	s.sessMu.Lock()
	sess, ok := s.sessions[id]
	s.sessMu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	return sess.Close()
}

// ActiveSessions 返回在途会话数
func (s *Service) ActiveSessions() int {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	return len(s.sessions)
}

// closeAllSessions 关闭所有在途会话
func (s *Service) closeAllSessions() {
	s.sessMu.Lock()
	sessions := make([]*session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessMu.Unlock()

	for _, sess := range sessions {
		_ = sess.Close()
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              统计
// ════════════════════════════════════════════════════════════════════════════

// Stats 返回跨会话的全局统计快照
func (s *Service) Stats() Stats {
	if s.reporter == nil {
		return Stats{}
	}
	return fromSnapshot(s.reporter.GetTotals())
}

// SessionStats 返回指定会话的统计快照
func (s *Service) SessionStats(id SessionID) Stats {
	if s.reporter == nil {
		return Stats{}
	}
	return fromSnapshot(s.reporter.GetForSession(id))
}
