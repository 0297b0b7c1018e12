package bridge

import (
	"context"
	"sync"

	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/types"
)

// ============================================================================
// 测试辅助
// ============================================================================

// fakeMplx 可编程的多路复用器桩
//
// 入站数据通过 in/inEOS 预置脚本，脚本耗尽后阻塞读取直到 ctx 取消；
// 出站数据记录到 out，blockOutput 模拟背压（入队阻塞到 ctx 取消）。
type fakeMplx struct {
	mu sync.Mutex

	in    [][]byte
	inEOS bool

	out [][]byte

	resets []error

	dequeueErr error
	enqueueErr error

	blockOutput bool
}

var _ pkgif.Multiplexer = (*fakeMplx)(nil)

type fakeRef struct{}

func (fakeRef) Release() {}

func (f *fakeMplx) Retain() pkgif.Ref { return fakeRef{} }

func (f *fakeMplx) ResetStream(id types.StreamID, cause error) {
	f.mu.Lock()
	f.resets = append(f.resets, cause)
	f.mu.Unlock()
}

func (f *fakeMplx) DequeueInput(ctx context.Context, id types.StreamID, policy types.BlockingPolicy, max int) ([]byte, bool, error) {
	f.mu.Lock()
	if f.dequeueErr != nil {
		err := f.dequeueErr
		f.mu.Unlock()
		return nil, false, err
	}

	if len(f.in) > 0 {
		chunk := f.in[0]
		if max > 0 && max < len(chunk) {
			out := chunk[:max]
			f.in[0] = chunk[max:]
			f.mu.Unlock()
			return out, false, nil
		}
		f.in = f.in[1:]
		eos := f.inEOS && len(f.in) == 0
		f.mu.Unlock()
		return chunk, eos, nil
	}

	if f.inEOS {
		f.mu.Unlock()
		return nil, true, nil
	}
	f.mu.Unlock()

	if policy == types.PolicyNonBlocking {
		return nil, false, pkgif.ErrWouldBlock
	}

	// 空队列: 阻塞到取消
	<-ctx.Done()
	return nil, false, ctx.Err()
}

func (f *fakeMplx) EnqueueOutput(ctx context.Context, id types.StreamID, chunk []byte) error {
	f.mu.Lock()
	if f.enqueueErr != nil {
		err := f.enqueueErr
		f.mu.Unlock()
		return err
	}
	block := f.blockOutput
	if !block {
		c := make([]byte, len(chunk))
		copy(c, chunk)
		f.out = append(f.out, c)
	}
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

// written 返回已记录的出站字节
func (f *fakeMplx) written() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []byte
	for _, c := range f.out {
		all = append(all, c...)
	}
	return all
}

// chunkSizes 返回出站块的尺寸序列
func (f *fakeMplx) chunkSizes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	sizes := make([]int, 0, len(f.out))
	for _, c := range f.out {
		sizes = append(sizes, len(c))
	}
	return sizes
}

// resetCount 返回记录的重置次数
func (f *fakeMplx) resetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.resets)
}
