package session

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

// silentEngine 不读不写直接返回，触发无输出重置
type silentEngine struct{}

func (silentEngine) Process(ctx context.Context, conn pkgif.ConnContext) error {
	return nil
}

// greetEngine 不消费输入，直接写出固定应答
type greetEngine struct {
	payload []byte
}

func (e greetEngine) Process(ctx context.Context, conn pkgif.ConnContext) error {
	_, err := conn.Write(e.payload)
	return err
}

// stallEngine 持续读取直到出错，用于观察会话关闭时的中止
type stallEngine struct{}

func (stallEngine) Process(ctx context.Context, conn pkgif.ConnContext) error {
	buf := make([]byte, 64)
	for {
		if _, err := conn.Read(buf); err != nil {
			return err
		}
	}
}
