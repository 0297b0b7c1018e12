package mplx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dep2p/go-streamtask/config"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/types"
)

// ============================================================================
// 边界条件和错误路径测试
// ============================================================================

// TestEdge_DequeueCanceledContext 测试阻塞读取被 ctx 取消
func TestEdge_DequeueCanceledContext(t *testing.T) {
	m := newTestMplx()
	defer m.Close()

	_ = m.OpenStream(13)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := m.DequeueInput(ctx, 13, types.PolicyBlocking, 1024)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("DequeueInput = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("DequeueInput did not observe cancellation")
	}
}

// TestEdge_ResetWakesBlockedReader 测试重置唤醒阻塞的读取方
func TestEdge_ResetWakesBlockedReader(t *testing.T) {
	m := newTestMplx()
	defer m.Close()

	_ = m.OpenStream(13)

	done := make(chan error, 1)
	go func() {
		_, err := m.DequeueOutput(context.Background(), 13)
		done <- err
	}()

	// 给读取方时间进入阻塞
	time.Sleep(10 * time.Millisecond)
	cause := errors.New("upstream gone")
	m.ResetStream(13, cause)

	select {
	case err := <-done:
		if !errors.Is(err, pkgif.ErrStreamReset) || !errors.Is(err, cause) {
			t.Errorf("DequeueOutput = %v, want reset error with cause", err)
		}
	case <-time.After(time.Second):
		t.Fatal("DequeueOutput did not observe reset")
	}
}

// TestEdge_ResetWakesBlockedWriter 测试重置唤醒被背压阻塞的写入方
func TestEdge_ResetWakesBlockedWriter(t *testing.T) {
	cfg := &config.MplxConfig{MaxStreamBufferBytes: 8}
	m := New(1, cfg, nil)
	defer m.Close()
	ctx := context.Background()

	_ = m.OpenStream(13)

	// 填满缓冲
	if err := m.AppendInput(ctx, 13, []byte("12345678")); err != nil {
		t.Fatalf("AppendInput() failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- m.AppendInput(ctx, 13, []byte("overflow"))
	}()

	time.Sleep(10 * time.Millisecond)
	m.ResetStream(13, errors.New("abort"))

	select {
	case err := <-done:
		if !errors.Is(err, pkgif.ErrStreamReset) {
			t.Errorf("blocked AppendInput = %v, want ErrStreamReset", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked AppendInput did not observe reset")
	}
}

// TestEdge_CloseStreamWakesBlockedReader 测试回收流唤醒阻塞的读取方
func TestEdge_CloseStreamWakesBlockedReader(t *testing.T) {
	m := newTestMplx()
	defer m.Close()

	_ = m.OpenStream(13)

	done := make(chan error, 1)
	go func() {
		_, _, err := m.DequeueInput(context.Background(), 13, types.PolicyBlocking, 0)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	_ = m.CloseStream(13)

	select {
	case err := <-done:
		if !errors.Is(err, ErrStreamUnknown) {
			t.Errorf("DequeueInput = %v, want ErrStreamUnknown", err)
		}
	case <-time.After(time.Second):
		t.Fatal("DequeueInput did not observe stream removal")
	}
}

// TestEdge_CloseWakesBlockedReader 测试关闭多路复用器唤醒阻塞的读取方
func TestEdge_CloseWakesBlockedReader(t *testing.T) {
	m := newTestMplx()

	_ = m.OpenStream(13)

	done := make(chan error, 1)
	go func() {
		_, _, err := m.DequeueInput(context.Background(), 13, types.PolicyBlocking, 0)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	_ = m.Close()

	select {
	case err := <-done:
		if !errors.Is(err, pkgif.ErrMplxClosed) {
			t.Errorf("DequeueInput = %v, want ErrMplxClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("DequeueInput did not observe close")
	}
}

// TestEdge_OversizedChunkAdmitted 测试空缓冲接纳超限大块
func TestEdge_OversizedChunkAdmitted(t *testing.T) {
	cfg := &config.MplxConfig{MaxStreamBufferBytes: 8}
	m := New(1, cfg, nil)
	defer m.Close()
	ctx := context.Background()

	_ = m.OpenStream(13)

	big := make([]byte, 64)
	if err := m.AppendInput(ctx, 13, big); err != nil {
		t.Fatalf("oversized AppendInput on empty buffer failed: %v", err)
	}

	chunk, _, err := m.DequeueInput(ctx, 13, types.PolicyBlocking, 0)
	if err != nil {
		t.Fatalf("DequeueInput() failed: %v", err)
	}
	if len(chunk) != 64 {
		t.Errorf("len(chunk) = %d, want 64", len(chunk))
	}
}

// TestEdge_EmptyChunkNoop 测试空块入队为空操作
func TestEdge_EmptyChunkNoop(t *testing.T) {
	m := newTestMplx()
	defer m.Close()
	ctx := context.Background()

	_ = m.OpenStream(13)

	if err := m.AppendInput(ctx, 13, nil); err != nil {
		t.Errorf("AppendInput(nil) failed: %v", err)
	}
	if err := m.EnqueueOutput(ctx, 13, []byte{}); err != nil {
		t.Errorf("EnqueueOutput(empty) failed: %v", err)
	}

	if _, _, err := m.DequeueInput(ctx, 13, types.PolicyNonBlocking, 0); !errors.Is(err, pkgif.ErrWouldBlock) {
		t.Errorf("queue not empty after empty appends: %v", err)
	}
}

// TestEdge_ResetAfterEOS 测试输入结束后的重置仍然生效
func TestEdge_ResetAfterEOS(t *testing.T) {
	m := newTestMplx()
	defer m.Close()
	ctx := context.Background()

	_ = m.OpenStream(13)
	_ = m.CloseInput(13)
	m.ResetStream(13, errors.New("late failure"))

	if _, _, err := m.DequeueInput(ctx, 13, types.PolicyBlocking, 0); !errors.Is(err, pkgif.ErrStreamReset) {
		t.Errorf("DequeueInput = %v, want reset to shadow EOS", err)
	}
}

// TestEdge_UnknownStreamOps 测试未知流上的操作
func TestEdge_UnknownStreamOps(t *testing.T) {
	m := newTestMplx()
	defer m.Close()
	ctx := context.Background()

	if err := m.AppendInput(ctx, 99, []byte("x")); !errors.Is(err, ErrStreamUnknown) {
		t.Errorf("AppendInput = %v, want ErrStreamUnknown", err)
	}
	if _, _, err := m.DequeueInput(ctx, 99, types.PolicyBlocking, 0); !errors.Is(err, ErrStreamUnknown) {
		t.Errorf("DequeueInput = %v, want ErrStreamUnknown", err)
	}
	if err := m.CloseInput(99); !errors.Is(err, ErrStreamUnknown) {
		t.Errorf("CloseInput = %v, want ErrStreamUnknown", err)
	}
	if err := m.CloseOutput(99); !errors.Is(err, ErrStreamUnknown) {
		t.Errorf("CloseOutput = %v, want ErrStreamUnknown", err)
	}
}
