package workers

import (
	"context"
	"sync/atomic"

	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/types"
)

// ============================================================================
// 测试辅助任务
// ============================================================================

// fakeTask 可注入行为的任务桩
type fakeTask struct {
	sessionID types.SessionID
	streamID  types.StreamID
	state     atomic.Int32
	runs      atomic.Int32
	runErr    error
	block     chan struct{} // 非 nil 时 Run 阻塞直到通道关闭
}

var _ pkgif.Task = (*fakeTask)(nil)

func newFakeTask() *fakeTask {
	return &fakeTask{sessionID: 7, streamID: 13}
}

func (f *fakeTask) SessionID() types.SessionID { return f.sessionID }
func (f *fakeTask) StreamID() types.StreamID   { return f.streamID }

func (f *fakeTask) State() types.RunState {
	return types.RunState(f.state.Load())
}

func (f *fakeTask) SetState(s types.RunState) {
	f.state.Store(int32(s))
}

func (f *fakeTask) IsRunning() bool {
	return f.State() == types.RunRunning
}

func (f *fakeTask) Run(ctx context.Context, engine pkgif.Engine) error {
	f.runs.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.runErr
}

func (f *fakeTask) Abort() {}

func (f *fakeTask) Destroy() error { return nil }
