package task

import (
	"context"
	"io"

	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
)

// ============================================================================
// 测试辅助引擎
// ============================================================================

// echoEngine 读取全部输入并原样写回
type echoEngine struct{}

var _ pkgif.Engine = echoEngine{}

func (echoEngine) Process(ctx context.Context, conn pkgif.ConnContext) error {
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
}

// silentEngine 不读不写直接返回
type silentEngine struct{}

func (silentEngine) Process(ctx context.Context, conn pkgif.ConnContext) error {
	return nil
}

// failingEngine 不产生输出并返回既定错误
type failingEngine struct {
	err error
}

func (e failingEngine) Process(ctx context.Context, conn pkgif.ConnContext) error {
	return e.err
}

// partialEngine 写出一段数据后返回既定错误
type partialEngine struct {
	payload []byte
	err     error
}

func (e partialEngine) Process(ctx context.Context, conn pkgif.ConnContext) error {
	if _, werr := conn.Write(e.payload); werr != nil {
		return werr
	}
	return e.err
}

// blockingEngine 持续读取直到出错，供中止测试观察引擎视角
type blockingEngine struct {
	entered chan struct{} // 进入 Process 时关闭
	result  chan error    // 读取循环的终止错误
}

func newBlockingEngine() *blockingEngine {
	return &blockingEngine{
		entered: make(chan struct{}),
		result:  make(chan error, 1),
	}
}

func (e *blockingEngine) Process(ctx context.Context, conn pkgif.ConnContext) error {
	close(e.entered)

	buf := make([]byte, 64)
	for {
		_, err := conn.Read(buf)
		if err != nil {
			e.result <- err
			return err
		}
	}
}
