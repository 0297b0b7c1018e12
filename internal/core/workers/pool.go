package workers

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/dep2p/go-streamtask/config"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/lib/log"
	"github.com/dep2p/go-streamtask/pkg/types"
)

var logger = log.Logger("core/workers")

// ============================================================================
// 执行器池
// ============================================================================

// Pool 有界任务执行器池
//
// 每个提交的任务独占一个 goroutine 运行到完成，同时执行的任务数
// 不超过池容量。
type Pool struct {
	size   int64
	sem    *semaphore.Weighted
	closed atomic.Bool
	active atomic.Int32
	wg     sync.WaitGroup
}

// New 创建执行器池
//
// cfg 为 nil 或容量非法时使用默认配置。
func New(cfg *config.WorkersConfig) *Pool {
	c := config.DefaultWorkersConfig()
	if cfg != nil && cfg.PoolSize > 0 {
		c = *cfg
	}
	return &Pool{
		size: int64(c.PoolSize),
		sem:  semaphore.NewWeighted(int64(c.PoolSize)),
	}
}

// Size 返回池容量
func (p *Pool) Size() int {
	return int(p.size)
}

// Active 返回当前在途任务数
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Submit 占用一个执行位并在独立 goroutine 中运行任务
//
// 池满时阻塞等待空位，ctx 取消时返回 ctx.Err()。执行 goroutine
// 在调用 Run 前后标记运行状态，Run 返回后调用 done 回调（可为
// nil），最后释放执行位。
func (p *Pool) Submit(ctx context.Context, t pkgif.Task, engine pkgif.Engine, done func(error)) error {
	if t == nil {
		return ErrNilTask
	}
	if p.closed.Load() {
		return ErrPoolClosed
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	// 先计入等待组再复核关闭标志，保证 Close 不会漏等本次提交
	p.wg.Add(1)
	if p.closed.Load() {
		p.wg.Done()
		p.sem.Release(1)
		return ErrPoolClosed
	}

	p.active.Add(1)
	go func() {
		defer func() {
			p.active.Add(-1)
			p.sem.Release(1)
			p.wg.Done()
		}()

		t.SetState(types.RunRunning)
		err := t.Run(ctx, engine)
		t.SetState(types.RunFinished)

		if err != nil {
			logger.Debug("任务执行返回错误",
				"sessionID", t.SessionID(),
				"streamID", t.StreamID(),
				"err", err)
		}
		if done != nil {
			done(err)
		}
	}()
	return nil
}

// reopen 重新接受提交
//
// 只能在池已关闭且在途任务全部返回之后调用。执行位在任务退出时
// 已逐个归还，这里恢复提交开关即可。
func (p *Pool) reopen() {
	p.closed.Store(false)
}

// Close 关闭执行器池
//
// 拒绝后续提交并等待在途任务全部返回。重复调用安全。
func (p *Pool) Close() error {
	p.closed.Store(true)
	p.wg.Wait()
	return nil
}

// CloseWithContext 关闭执行器池并在等待在途任务时响应 ctx 取消
func (p *Pool) CloseWithContext(ctx context.Context) error {
	p.closed.Store(true)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
