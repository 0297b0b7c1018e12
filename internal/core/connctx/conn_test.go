package connctx

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/dep2p/go-streamtask/internal/core/arena"
)

// newTestConn 创建测试用连接上下文
func newTestConn(t *testing.T) (*Conn, *arena.Arena) {
	t.Helper()
	a := arena.New(0)
	c, err := New(a, 7, 13)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c, a
}

// claim 安装一对假阶段并认领连接
func claim(t *testing.T, c *Conn, in *fakeInput, out *fakeOutput) {
	t.Helper()
	if err := c.InstallInput("MUX_TO_CONN", in); err != nil {
		t.Fatalf("InstallInput() failed: %v", err)
	}
	if err := c.InstallOutput("CONN_TO_MUX", out); err != nil {
		t.Fatalf("InstallOutput() failed: %v", err)
	}
	if err := c.Claim(); err != nil {
		t.Fatalf("Claim() failed: %v", err)
	}
}

// ============================================================================
// 连接上下文测试
// ============================================================================

// TestConn_Identity 测试标识访问器
func TestConn_Identity(t *testing.T) {
	c, a := newTestConn(t)
	defer a.Destroy()

	if got := c.SessionID(); got != 7 {
		t.Errorf("SessionID() = %v, want 7", got)
	}
	if got := c.StreamID(); got != 13 {
		t.Errorf("StreamID() = %v, want 13", got)
	}
	if got := c.LogID(); got != "7-13" {
		t.Errorf("LogID() = %q, want %q", got, "7-13")
	}
	if c.Buffers() == nil {
		t.Error("Buffers() = nil")
	}
}

// TestConn_UnclaimedRefusesIO 测试未认领连接拒绝 I/O
func TestConn_UnclaimedRefusesIO(t *testing.T) {
	c, a := newTestConn(t)
	defer a.Destroy()

	buf := make([]byte, 16)
	if _, err := c.Read(buf); !errors.Is(err, ErrConnUnclaimed) {
		t.Errorf("Read() = %v, want ErrConnUnclaimed", err)
	}
	if _, err := c.Write([]byte("x")); !errors.Is(err, ErrConnUnclaimed) {
		t.Errorf("Write() = %v, want ErrConnUnclaimed", err)
	}
	if c.Input() != nil {
		t.Error("Input() != nil before claim")
	}
	if c.Output() != nil {
		t.Error("Output() != nil before claim")
	}
}

// TestConn_ClaimRequiresStages 测试认领要求两个阶段就位
func TestConn_ClaimRequiresStages(t *testing.T) {
	c, a := newTestConn(t)
	defer a.Destroy()

	if err := c.Claim(); !errors.Is(err, ErrStageMissing) {
		t.Errorf("Claim() without stages = %v, want ErrStageMissing", err)
	}

	if err := c.InstallInput("MUX_TO_CONN", &fakeInput{}); err != nil {
		t.Fatalf("InstallInput() failed: %v", err)
	}
	if err := c.Claim(); !errors.Is(err, ErrStageMissing) {
		t.Errorf("Claim() with input only = %v, want ErrStageMissing", err)
	}
}

// TestConn_DuplicateInstall 测试重复安装
func TestConn_DuplicateInstall(t *testing.T) {
	c, a := newTestConn(t)
	defer a.Destroy()

	_ = c.InstallInput("MUX_TO_CONN", &fakeInput{})
	if err := c.InstallInput("MUX_TO_CONN", &fakeInput{}); !errors.Is(err, ErrStageInstalled) {
		t.Errorf("duplicate InstallInput() = %v, want ErrStageInstalled", err)
	}

	_ = c.InstallOutput("CONN_TO_MUX", &fakeOutput{})
	if err := c.InstallOutput("CONN_TO_MUX", &fakeOutput{}); !errors.Is(err, ErrStageInstalled) {
		t.Errorf("duplicate InstallOutput() = %v, want ErrStageInstalled", err)
	}
}

// TestConn_DuplicateClaim 测试重复认领
func TestConn_DuplicateClaim(t *testing.T) {
	c, a := newTestConn(t)
	defer a.Destroy()

	claim(t, c, &fakeInput{}, &fakeOutput{})

	if err := c.Claim(); !errors.Is(err, ErrConnClaimed) {
		t.Errorf("second Claim() = %v, want ErrConnClaimed", err)
	}
}

// TestConn_ReadWrite 测试读写委托给阶段
func TestConn_ReadWrite(t *testing.T) {
	c, a := newTestConn(t)
	defer a.Destroy()

	in := &fakeInput{chunks: [][]byte{[]byte("request bytes")}}
	out := &fakeOutput{}
	claim(t, c, in, out)

	buf := make([]byte, 64)
	n, err := c.Read(buf)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if string(buf[:n]) != "request bytes" {
		t.Errorf("Read() = %q, want %q", buf[:n], "request bytes")
	}

	// 输入耗尽后 EOF
	if _, err := c.Read(buf); err != io.EOF {
		t.Errorf("Read() after EOF = %v, want io.EOF", err)
	}

	if _, err := c.Write([]byte("response")); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if got := out.buf.String(); got != "response" {
		t.Errorf("written = %q, want %q", got, "response")
	}
	if !out.Started() {
		t.Error("Started() = false after Write")
	}
}

// TestConn_ReadShortBuffer 测试短缓冲读取
func TestConn_ReadShortBuffer(t *testing.T) {
	c, a := newTestConn(t)
	defer a.Destroy()

	claim(t, c, &fakeInput{chunks: [][]byte{[]byte("abcdef")}}, &fakeOutput{})

	buf := make([]byte, 4)
	n, err := c.Read(buf)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if n != 4 || string(buf[:n]) != "abcd" {
		t.Errorf("Read() = %q (%d bytes), want %q", buf[:n], n, "abcd")
	}

	// 零长缓冲直接返回
	n, err = c.Read(nil)
	if n != 0 || err != nil {
		t.Errorf("Read(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

// TestConn_Close 测试关闭后的行为
func TestConn_Close(t *testing.T) {
	c, a := newTestConn(t)
	defer a.Destroy()

	claim(t, c, &fakeInput{}, &fakeOutput{})

	if err := c.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() failed: %v", err)
	}

	if _, err := c.Read(make([]byte, 4)); !errors.Is(err, ErrConnClosed) {
		t.Errorf("Read() after Close = %v, want ErrConnClosed", err)
	}
	if _, err := c.Write([]byte("x")); !errors.Is(err, ErrConnClosed) {
		t.Errorf("Write() after Close = %v, want ErrConnClosed", err)
	}
}

// TestConn_ArenaDestroyClosesConn 测试竞技场销毁联动关闭连接
func TestConn_ArenaDestroyClosesConn(t *testing.T) {
	c, a := newTestConn(t)
	claim(t, c, &fakeInput{}, &fakeOutput{})

	if err := a.Destroy(); err != nil {
		t.Fatalf("Destroy() failed: %v", err)
	}

	if _, err := c.Write([]byte("x")); !errors.Is(err, ErrConnClosed) {
		t.Errorf("Write() after arena destroy = %v, want ErrConnClosed", err)
	}
}

// TestConn_Addresses 测试合成地址
func TestConn_Addresses(t *testing.T) {
	c, a := newTestConn(t)
	defer a.Destroy()

	// 端点未绑定时返回占位地址
	if got := c.LocalAddr().Network(); got != AddrNetwork {
		t.Errorf("LocalAddr().Network() = %q, want %q", got, AddrNetwork)
	}
	if got := c.RemoteAddr().String(); got != "stream/7-13" {
		t.Errorf("RemoteAddr() = %q, want %q", got, "stream/7-13")
	}

	ep, err := NewEndpoint(a, 7, 13)
	if err != nil {
		t.Fatalf("NewEndpoint() failed: %v", err)
	}
	defer ep.Close()

	if err := c.BindEndpoint(ep); err != nil {
		t.Fatalf("BindEndpoint() failed: %v", err)
	}
	if err := c.BindEndpoint(ep); !errors.Is(err, ErrEndpointBound) {
		t.Errorf("second BindEndpoint() = %v, want ErrEndpointBound", err)
	}

	if got := c.LocalAddr().String(); got != "session/7" {
		t.Errorf("LocalAddr() = %q, want %q", got, "session/7")
	}

	c.UnbindEndpoint()
	if got := c.RemoteAddr().String(); got != "stream/7-13" {
		t.Errorf("RemoteAddr() after unbind = %q, want placeholder", got)
	}
}

// TestConn_Deadlines 测试截止时间被接受并忽略
func TestConn_Deadlines(t *testing.T) {
	c, a := newTestConn(t)
	defer a.Destroy()

	now := time.Now()
	if err := c.SetDeadline(now); err != nil {
		t.Errorf("SetDeadline() failed: %v", err)
	}
	if err := c.SetReadDeadline(now); err != nil {
		t.Errorf("SetReadDeadline() failed: %v", err)
	}
	if err := c.SetWriteDeadline(now); err != nil {
		t.Errorf("SetWriteDeadline() failed: %v", err)
	}
}

// TestConn_NewOnDestroyedArena 测试在已销毁竞技场上创建失败
func TestConn_NewOnDestroyedArena(t *testing.T) {
	a := arena.New(0)
	_ = a.Destroy()

	if _, err := New(a, 7, 13); !errors.Is(err, arena.ErrArenaDestroyed) {
		t.Errorf("New() on destroyed arena = %v, want ErrArenaDestroyed", err)
	}
}
