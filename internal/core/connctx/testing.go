package connctx

import (
	"bytes"
	"context"
	"io"

	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/types"
)

// ============================================================================
// 测试辅助
// ============================================================================

// fakeInput 预置数据的输入阶段
type fakeInput struct {
	chunks [][]byte
	err    error
	closed bool
}

var _ pkgif.InputStage = (*fakeInput)(nil)

func (f *fakeInput) Read(ctx context.Context, mode types.ReadMode, policy types.BlockingPolicy, max int) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.chunks) == 0 {
		return nil, io.EOF
	}

	chunk := f.chunks[0]
	if max > 0 && max < len(chunk) {
		out := chunk[:max]
		if mode == types.ReadBytes {
			f.chunks[0] = chunk[max:]
		}
		return out, nil
	}
	if mode == types.ReadBytes {
		f.chunks = f.chunks[1:]
	}
	return chunk, nil
}

func (f *fakeInput) Close() error {
	f.closed = true
	return nil
}

// fakeOutput 记录写入的输出阶段
type fakeOutput struct {
	buf     bytes.Buffer
	started bool
	closed  bool
	err     error
}

var _ pkgif.OutputStage = (*fakeOutput)(nil)

func (f *fakeOutput) Write(p []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.started = true
	return f.buf.Write(p)
}

func (f *fakeOutput) Started() bool { return f.started }

func (f *fakeOutput) Close() error {
	f.closed = true
	return nil
}
