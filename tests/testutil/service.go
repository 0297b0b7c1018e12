// Package testutil 提供测试辅助工具
package testutil

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/libp2p/go-yamux/v4"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-streamtask"
)

// TestServiceBuilder 测试服务构建器
//
// 使用 Builder 模式简化测试服务的创建和配置。
//
// 示例:
//
//	svc := testutil.NewTestService(t).
//		WithEngine(testutil.EchoEngine()).
//		Start()
//	sess := svc.Dial()
type TestServiceBuilder struct {
	t      *testing.T
	engine streamtask.Engine
	opts   []streamtask.Option
}

// NewTestService 创建测试服务构建器
//
// 默认配置:
//   - engine: EchoEngine()
//   - 监听: 127.0.0.1 随机端口
func NewTestService(t *testing.T) *TestServiceBuilder {
	t.Helper()
	return &TestServiceBuilder{t: t}
}

// WithEngine 设置流处理引擎
func (b *TestServiceBuilder) WithEngine(e streamtask.Engine) *TestServiceBuilder {
	b.engine = e
	return b
}

// WithOptions 附加额外的服务选项
func (b *TestServiceBuilder) WithOptions(opts ...streamtask.Option) *TestServiceBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Start 构建并启动测试服务
//
// 服务监听 127.0.0.1 上的随机 TCP 端口，测试结束时自动关闭。
func (b *TestServiceBuilder) Start() *TestService {
	b.t.Helper()

	engine := b.engine
	if engine == nil {
		engine = EchoEngine()
	}
	opts := append([]streamtask.Option{streamtask.WithEngine(engine)}, b.opts...)

	svc, err := streamtask.New(opts...)
	require.NoError(b.t, err, "创建测试服务失败")
	require.NoError(b.t, svc.Start(context.Background()), "启动测试服务失败")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(b.t, err, "监听失败")

	ts := &TestService{
		t:    b.t,
		svc:  svc,
		ln:   ln,
		done: make(chan error, 1),
	}
	go func() { ts.done <- svc.ServeListener(ln) }()

	b.t.Cleanup(func() {
		_ = ln.Close()
		_ = svc.Close()
	})
	return ts
}

// TestService 已启动的测试服务
type TestService struct {
	t    *testing.T
	svc  *streamtask.Service
	ln   net.Listener
	done chan error
}

// Service 返回底层服务
func (s *TestService) Service() *streamtask.Service {
	return s.svc
}

// Addr 返回服务监听地址
func (s *TestService) Addr() string {
	return s.ln.Addr().String()
}

// Dial 建立到服务的多路复用客户端会话
//
// 会话在测试结束时自动关闭。
func (s *TestService) Dial() *yamux.Session {
	s.t.Helper()

	conn, err := net.Dial("tcp", s.Addr())
	require.NoError(s.t, err, "连接测试服务失败")

	ycfg := yamux.DefaultConfig()
	ycfg.LogOutput = io.Discard
	sess, err := yamux.Client(conn, ycfg, nil)
	require.NoError(s.t, err, "建立多路复用会话失败")

	s.t.Cleanup(func() { _ = sess.Close() })
	return sess
}

// Stats 返回服务的全局统计
func (s *TestService) Stats() streamtask.Stats {
	return s.svc.Stats()
}

// RoundTrip 在新流上发送 payload 并返回完整响应
//
// 写入后关闭写端（发送流结束），读取到 EOF 为止。
func RoundTrip(t *testing.T, sess *yamux.Session, payload []byte) []byte {
	t.Helper()

	st, err := sess.OpenStream(context.Background())
	require.NoError(t, err, "打开流失败")
	defer st.Close()

	_, err = st.Write(payload)
	require.NoError(t, err, "写入失败")
	require.NoError(t, st.CloseWrite(), "关闭写端失败")

	got, err := io.ReadAll(st)
	require.NoError(t, err, "读取响应失败")
	return got
}

// EchoEngine 返回把输入原样写回的引擎
func EchoEngine() streamtask.Engine {
	return streamtask.EngineFunc(func(ctx context.Context, conn streamtask.ConnContext) error {
		buf := make([]byte, 4096)
		for {
			n, err := conn.Read(buf)
			if n > 0 {
				if _, werr := conn.Write(buf[:n]); werr != nil {
					return werr
				}
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
		}
	})
}

// SilentEngine 返回不产生任何输出的引擎
func SilentEngine() streamtask.Engine {
	return streamtask.EngineFunc(func(ctx context.Context, conn streamtask.ConnContext) error {
		return nil
	})
}

// StallEngine 返回阻塞等待输入的引擎
//
// 引擎持续读取但不写回，直到流被中止或输入结束。
// 用于验证服务关闭时在途任务被中止。
func StallEngine() streamtask.Engine {
	return streamtask.EngineFunc(func(ctx context.Context, conn streamtask.ConnContext) error {
		buf := make([]byte, 4096)
		for {
			if _, err := conn.Read(buf); err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
		}
	})
}

// Eventually 在指定时间内重试条件检查
//
// 使用默认间隔 10ms，超时则 fail 测试。
//
// 示例:
//
//	testutil.Eventually(t, 5*time.Second, func() bool {
//	    return svc.Stats().Completed == 1
//	}, "任务应该完成")
func Eventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("等待超时: %s", msg)
}
