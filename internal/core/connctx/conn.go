package connctx

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-streamtask/internal/core/arena"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/lib/log"
	"github.com/dep2p/go-streamtask/pkg/types"
)

var logger = log.Logger("core/connctx")

// ============================================================================
// Conn - 合成连接上下文
// ============================================================================

// Conn 合成连接上下文
//
// 对处理引擎呈现为一条普通的 net.Conn，实际的字节流经由安装在
// 连接上的管道阶段完成。创建后处于未认领状态，拒绝所有 I/O。
type Conn struct {
	sessionID types.SessionID
	streamID  types.StreamID
	arena     *arena.Arena

	closed atomic.Bool

	mu       sync.RWMutex
	claimed  bool
	input    pkgif.InputStage
	output   pkgif.OutputStage
	endpoint pkgif.Endpoint
}

var (
	_ pkgif.ConnContext = (*Conn)(nil)
	_ pkgif.StageHost   = (*Conn)(nil)
)

// New 创建合成连接上下文
//
// 连接注册到竞技场的销毁清理链上：竞技场销毁时连接自动关闭。
func New(a *arena.Arena, sessionID types.SessionID, streamID types.StreamID) (*Conn, error) {
	c := &Conn{
		sessionID: sessionID,
		streamID:  streamID,
		arena:     a,
	}

	if err := a.OnDestroy(c.Close); err != nil {
		return nil, fmt.Errorf("create conn context: %w", err)
	}
	return c, nil
}

// ============================================================================
// 标识访问器
// ============================================================================

// SessionID 返回所属会话标识
func (c *Conn) SessionID() types.SessionID { return c.sessionID }

// StreamID 返回逻辑流标识
func (c *Conn) StreamID() types.StreamID { return c.streamID }

// LogID 返回 "会话-流" 日志关联标识
func (c *Conn) LogID() string { return types.LogID(c.sessionID, c.streamID) }

// Buffers 返回任务域缓冲分配器
func (c *Conn) Buffers() pkgif.BufferAllocator { return c.arena.Buffers() }

// ============================================================================
// StageHost 实现
// ============================================================================

// InstallInput 安装命名输入阶段
func (c *Conn) InstallInput(name string, stage pkgif.InputStage) error {
	if c.closed.Load() {
		return ErrConnClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.input != nil {
		return fmt.Errorf("install %s: %w", name, ErrStageInstalled)
	}
	c.input = stage
	return nil
}

// InstallOutput 安装命名输出阶段
func (c *Conn) InstallOutput(name string, stage pkgif.OutputStage) error {
	if c.closed.Load() {
		return ErrConnClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.output != nil {
		return fmt.Errorf("install %s: %w", name, ErrStageInstalled)
	}
	c.output = stage
	return nil
}

// Claim 独占认领连接
//
// 要求两个方向的阶段都已安装；重复认领返回 ErrConnClaimed。
func (c *Conn) Claim() error {
	if c.closed.Load() {
		return ErrConnClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.claimed {
		return ErrConnClaimed
	}
	if c.input == nil || c.output == nil {
		return ErrStageMissing
	}
	c.claimed = true

	logger.Debug("连接已认领", "stream", c.LogID())
	return nil
}

// Input 返回已安装的输入阶段，未认领时为 nil
func (c *Conn) Input() pkgif.InputStage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.claimed {
		return nil
	}
	return c.input
}

// Output 返回已安装的输出阶段，未认领时为 nil
func (c *Conn) Output() pkgif.OutputStage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.claimed {
		return nil
	}
	return c.output
}

// ============================================================================
// 端点绑定
// ============================================================================

// BindEndpoint 把合成端点绑定到连接
func (c *Conn) BindEndpoint(ep pkgif.Endpoint) error {
	if c.closed.Load() {
		return ErrConnClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.endpoint != nil {
		return ErrEndpointBound
	}
	c.endpoint = ep
	return nil
}

// UnbindEndpoint 解除端点绑定
//
// 端点本身的释放由持有方负责。
func (c *Conn) UnbindEndpoint() {
	c.mu.Lock()
	c.endpoint = nil
	c.mu.Unlock()
}

// ============================================================================
// net.Conn 实现
// ============================================================================

// Read 经输入阶段读取数据
func (c *Conn) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	in, err := c.readStage()
	if err != nil {
		return 0, err
	}

	chunk, err := in.Read(context.Background(), types.ReadBytes, types.PolicyBlocking, len(p))
	if err != nil {
		return 0, err
	}
	return copy(p, chunk), nil
}

// Write 经输出阶段写出数据
func (c *Conn) Write(p []byte) (int, error) {
	out, err := c.writeStage()
	if err != nil {
		return 0, err
	}
	return out.Write(p)
}

// Close 关闭连接
//
// 幂等。只拒绝后续 I/O，不拆除管道阶段（阶段由任务拆除）。
func (c *Conn) Close() error {
	c.closed.Store(true)
	return nil
}

// LocalAddr 返回本端地址
//
// 端点未绑定时返回由标识派生的占位地址。
func (c *Conn) LocalAddr() net.Addr {
	c.mu.RLock()
	ep := c.endpoint
	c.mu.RUnlock()

	if ep != nil {
		return ep.LocalAddr()
	}
	return streamAddr{addr: fmt.Sprintf("session/%d", c.sessionID)}
}

// RemoteAddr 返回对端地址
func (c *Conn) RemoteAddr() net.Addr {
	c.mu.RLock()
	ep := c.endpoint
	c.mu.RUnlock()

	if ep != nil {
		return ep.RemoteAddr()
	}
	return streamAddr{addr: fmt.Sprintf("stream/%s", c.LogID())}
}

// SetDeadline 设置读写截止时间
//
// 合成连接没有截止时间机制，接受并忽略。
func (c *Conn) SetDeadline(t time.Time) error { return nil }

// SetReadDeadline 设置读截止时间
func (c *Conn) SetReadDeadline(t time.Time) error { return nil }

// SetWriteDeadline 设置写截止时间
func (c *Conn) SetWriteDeadline(t time.Time) error { return nil }

// readStage 返回可用的输入阶段
func (c *Conn) readStage() (pkgif.InputStage, error) {
	if c.closed.Load() {
		return nil, ErrConnClosed
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.claimed || c.input == nil {
		return nil, ErrConnUnclaimed
	}
	return c.input, nil
}

// writeStage 返回可用的输出阶段
func (c *Conn) writeStage() (pkgif.OutputStage, error) {
	if c.closed.Load() {
		return nil, ErrConnClosed
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.claimed || c.output == nil {
		return nil, ErrConnUnclaimed
	}
	return c.output, nil
}
