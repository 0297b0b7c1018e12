package mplx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/types"
)

// newTestMplx 创建测试用多路复用器
func newTestMplx() *Mplx {
	return New(1, nil, nil)
}

// ============================================================================
// 流生命周期测试
// ============================================================================

// TestMplx_OpenStream 测试打开流
func TestMplx_OpenStream(t *testing.T) {
	m := newTestMplx()
	defer m.Close()

	if err := m.OpenStream(13); err != nil {
		t.Fatalf("OpenStream(13) failed: %v", err)
	}
	if got := m.Streams(); got != 1 {
		t.Errorf("Streams() = %d, want 1", got)
	}

	// 重复打开
	if err := m.OpenStream(13); !errors.Is(err, ErrStreamExists) {
		t.Errorf("duplicate OpenStream(13) = %v, want ErrStreamExists", err)
	}
}

// TestMplx_CloseStream 测试回收流
func TestMplx_CloseStream(t *testing.T) {
	m := newTestMplx()
	defer m.Close()

	if err := m.OpenStream(13); err != nil {
		t.Fatalf("OpenStream(13) failed: %v", err)
	}
	if err := m.CloseStream(13); err != nil {
		t.Fatalf("CloseStream(13) failed: %v", err)
	}
	if got := m.Streams(); got != 0 {
		t.Errorf("Streams() = %d, want 0", got)
	}

	// 回收后操作失败
	if err := m.AppendInput(context.Background(), 13, []byte("x")); !errors.Is(err, ErrStreamUnknown) {
		t.Errorf("AppendInput after CloseStream = %v, want ErrStreamUnknown", err)
	}
	if err := m.CloseStream(13); !errors.Is(err, ErrStreamUnknown) {
		t.Errorf("second CloseStream = %v, want ErrStreamUnknown", err)
	}
}

// ============================================================================
// 输入方向测试
// ============================================================================

// TestMplx_InputRoundtrip 测试输入数据往返
func TestMplx_InputRoundtrip(t *testing.T) {
	m := newTestMplx()
	defer m.Close()
	ctx := context.Background()

	_ = m.OpenStream(13)

	want := []byte("hello stream")
	if err := m.AppendInput(ctx, 13, want); err != nil {
		t.Fatalf("AppendInput() failed: %v", err)
	}

	chunk, eos, err := m.DequeueInput(ctx, 13, types.PolicyBlocking, 1024)
	if err != nil {
		t.Fatalf("DequeueInput() failed: %v", err)
	}
	if !bytes.Equal(chunk, want) {
		t.Errorf("chunk = %q, want %q", chunk, want)
	}
	if eos {
		t.Error("eos = true before CloseInput")
	}
}

// TestMplx_InputPartialConsume 测试部分消费
func TestMplx_InputPartialConsume(t *testing.T) {
	m := newTestMplx()
	defer m.Close()
	ctx := context.Background()

	_ = m.OpenStream(13)
	_ = m.AppendInput(ctx, 13, []byte("abcdefghij"))

	var got []byte
	for i := 0; i < 3; i++ {
		chunk, _, err := m.DequeueInput(ctx, 13, types.PolicyBlocking, 4)
		if err != nil {
			t.Fatalf("DequeueInput() #%d failed: %v", i, err)
		}
		if len(chunk) > 4 {
			t.Errorf("len(chunk) = %d, want <= 4", len(chunk))
		}
		got = append(got, chunk...)
	}

	if string(got) != "abcdefghij" {
		t.Errorf("reassembled = %q, want %q", got, "abcdefghij")
	}
}

// TestMplx_InputEOS 测试输入结束信号
func TestMplx_InputEOS(t *testing.T) {
	m := newTestMplx()
	defer m.Close()
	ctx := context.Background()

	_ = m.OpenStream(13)
	_ = m.AppendInput(ctx, 13, []byte("last"))
	if err := m.CloseInput(13); err != nil {
		t.Fatalf("CloseInput() failed: %v", err)
	}

	// 最后一块数据与 eos 同时返回
	chunk, eos, err := m.DequeueInput(ctx, 13, types.PolicyBlocking, 1024)
	if err != nil {
		t.Fatalf("DequeueInput() failed: %v", err)
	}
	if string(chunk) != "last" {
		t.Errorf("chunk = %q, want %q", chunk, "last")
	}
	if !eos {
		t.Error("eos = false with final chunk")
	}

	// 之后的读取持续返回 eos
	chunk, eos, err = m.DequeueInput(ctx, 13, types.PolicyBlocking, 1024)
	if err != nil {
		t.Fatalf("DequeueInput() after EOS failed: %v", err)
	}
	if chunk != nil || !eos {
		t.Errorf("after EOS: chunk=%v eos=%v, want nil/true", chunk, eos)
	}

	// CloseInput 幂等
	if err := m.CloseInput(13); err != nil {
		t.Errorf("second CloseInput() failed: %v", err)
	}

	// 输入结束后继续灌入失败
	if err := m.AppendInput(ctx, 13, []byte("x")); !errors.Is(err, ErrInputClosed) {
		t.Errorf("AppendInput after CloseInput = %v, want ErrInputClosed", err)
	}
}

// TestMplx_InputNonBlocking 测试非阻塞读取
func TestMplx_InputNonBlocking(t *testing.T) {
	m := newTestMplx()
	defer m.Close()
	ctx := context.Background()

	_ = m.OpenStream(13)

	if _, _, err := m.DequeueInput(ctx, 13, types.PolicyNonBlocking, 1024); !errors.Is(err, pkgif.ErrWouldBlock) {
		t.Errorf("DequeueInput on empty queue = %v, want ErrWouldBlock", err)
	}
}

// ============================================================================
// 输出方向测试
// ============================================================================

// TestMplx_OutputRoundtrip 测试输出数据往返
func TestMplx_OutputRoundtrip(t *testing.T) {
	m := newTestMplx()
	defer m.Close()
	ctx := context.Background()

	_ = m.OpenStream(13)

	want := []byte("response body")
	if err := m.EnqueueOutput(ctx, 13, want); err != nil {
		t.Fatalf("EnqueueOutput() failed: %v", err)
	}

	chunk, err := m.DequeueOutput(ctx, 13)
	if err != nil {
		t.Fatalf("DequeueOutput() failed: %v", err)
	}
	if !bytes.Equal(chunk, want) {
		t.Errorf("chunk = %q, want %q", chunk, want)
	}
}

// TestMplx_OutputDrainThenEOF 测试输出关闭后先取完再 EOF
func TestMplx_OutputDrainThenEOF(t *testing.T) {
	m := newTestMplx()
	defer m.Close()
	ctx := context.Background()

	_ = m.OpenStream(13)
	_ = m.EnqueueOutput(ctx, 13, []byte("a"))
	_ = m.EnqueueOutput(ctx, 13, []byte("b"))
	if err := m.CloseOutput(13); err != nil {
		t.Fatalf("CloseOutput() failed: %v", err)
	}

	for _, want := range []string{"a", "b"} {
		chunk, err := m.DequeueOutput(ctx, 13)
		if err != nil {
			t.Fatalf("DequeueOutput() failed: %v", err)
		}
		if string(chunk) != want {
			t.Errorf("chunk = %q, want %q", chunk, want)
		}
	}

	if _, err := m.DequeueOutput(ctx, 13); err != io.EOF {
		t.Errorf("DequeueOutput after drain = %v, want io.EOF", err)
	}

	// 输出结束后继续写入失败
	if err := m.EnqueueOutput(ctx, 13, []byte("x")); !errors.Is(err, ErrOutputClosed) {
		t.Errorf("EnqueueOutput after CloseOutput = %v, want ErrOutputClosed", err)
	}
}

// TestMplx_EnqueueCopies 测试入队复制数据
func TestMplx_EnqueueCopies(t *testing.T) {
	m := newTestMplx()
	defer m.Close()
	ctx := context.Background()

	_ = m.OpenStream(13)

	p := []byte("original")
	_ = m.EnqueueOutput(ctx, 13, p)
	p[0] = 'X' // 调用方复用缓冲区

	chunk, err := m.DequeueOutput(ctx, 13)
	if err != nil {
		t.Fatalf("DequeueOutput() failed: %v", err)
	}
	if string(chunk) != "original" {
		t.Errorf("chunk = %q, want %q (queue must copy)", chunk, "original")
	}
}

// ============================================================================
// 流重置测试
// ============================================================================

// TestMplx_ResetStream 测试流重置
func TestMplx_ResetStream(t *testing.T) {
	m := newTestMplx()
	defer m.Close()
	ctx := context.Background()

	_ = m.OpenStream(13)

	cause := errors.New("engine exploded")
	m.ResetStream(13, cause)

	// 两个方向都观察到重置
	if _, _, err := m.DequeueInput(ctx, 13, types.PolicyBlocking, 1024); !errors.Is(err, pkgif.ErrStreamReset) || !errors.Is(err, cause) {
		t.Errorf("DequeueInput after reset = %v, want ErrStreamReset joined with cause", err)
	}
	if _, err := m.DequeueOutput(ctx, 13); !errors.Is(err, pkgif.ErrStreamReset) {
		t.Errorf("DequeueOutput after reset = %v, want ErrStreamReset", err)
	}
	if err := m.AppendInput(ctx, 13, []byte("x")); !errors.Is(err, pkgif.ErrStreamReset) {
		t.Errorf("AppendInput after reset = %v, want ErrStreamReset", err)
	}
	if err := m.EnqueueOutput(ctx, 13, []byte("x")); !errors.Is(err, pkgif.ErrStreamReset) {
		t.Errorf("EnqueueOutput after reset = %v, want ErrStreamReset", err)
	}
}

// TestMplx_ResetFirstWins 测试重置原因首次生效
func TestMplx_ResetFirstWins(t *testing.T) {
	m := newTestMplx()
	defer m.Close()

	_ = m.OpenStream(13)

	first := errors.New("first cause")
	second := errors.New("second cause")
	m.ResetStream(13, first)
	m.ResetStream(13, second)

	_, err := m.DequeueOutput(context.Background(), 13)
	if !errors.Is(err, first) {
		t.Errorf("reset cause = %v, want first cause", err)
	}
	if errors.Is(err, second) {
		t.Error("reset cause contains second cause, want first-wins")
	}
}

// TestMplx_ResetNilCause 测试 nil 原因规范化
func TestMplx_ResetNilCause(t *testing.T) {
	m := newTestMplx()
	defer m.Close()

	_ = m.OpenStream(13)
	m.ResetStream(13, nil)

	_, err := m.DequeueOutput(context.Background(), 13)
	if !errors.Is(err, pkgif.ErrNoOutput) {
		t.Errorf("nil-cause reset = %v, want ErrNoOutput", err)
	}

	// 未知流的重置是空操作
	m.ResetStream(99, errors.New("whatever"))
}

// ============================================================================
// 引用计数测试
// ============================================================================

// TestMplx_RefCounting 测试引用计数
func TestMplx_RefCounting(t *testing.T) {
	m := newTestMplx()

	r1 := m.Retain()
	r2 := m.Retain()

	// Close 归还所有者引用, 但任务引用仍在
	if err := m.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	select {
	case <-m.Done():
		t.Fatal("Done() closed while refs outstanding")
	default:
	}

	r1.Release()
	r1.Release() // 幂等
	select {
	case <-m.Done():
		t.Fatal("Done() closed while one ref outstanding")
	default:
	}

	r2.Release()
	select {
	case <-m.Done():
	default:
		t.Fatal("Done() not closed after last release")
	}
}

// TestMplx_CloseIdempotent 测试关闭幂等
func TestMplx_CloseIdempotent(t *testing.T) {
	m := newTestMplx()

	if err := m.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close() failed: %v", err)
	}

	select {
	case <-m.Done():
	default:
		t.Fatal("Done() not closed after Close with no refs")
	}

	// 关闭后的操作失败
	if err := m.OpenStream(13); !errors.Is(err, pkgif.ErrMplxClosed) {
		t.Errorf("OpenStream after Close = %v, want ErrMplxClosed", err)
	}
}

// TestMplx_SessionID 测试会话标识
func TestMplx_SessionID(t *testing.T) {
	m := New(42, nil, nil)
	defer m.Close()

	if got := m.SessionID(); got != 42 {
		t.Errorf("SessionID() = %v, want 42", got)
	}
}
