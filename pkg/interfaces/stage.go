// Package interfaces 定义 go-streamtask 的公共接口
//
// 本文件定义处理引擎可扩展 I/O 管道的阶段契约。
package interfaces

import (
	"context"

	"github.com/dep2p/go-streamtask/pkg/types"
)

// InputStage 定义输入方向的管道阶段
//
// 输入阶段把多路复用器的每流入站队列呈现为顺序字节流。
// 阶段被拆除（任务中止或销毁）后，所有调用确定性地返回
// ErrStreamAborted，绝不阻塞、绝不返回旧数据。
type InputStage interface {
	// Read 按模式与阻塞策略读取最多 max 字节
	//
	// ReadBytes 消费数据；ReadSpeculative 返回数据但不消费。
	// 输入结束后返回 io.EOF。返回的切片在下一次 Read 前有效，
	// 调用方不得修改。
	Read(ctx context.Context, mode types.ReadMode, policy types.BlockingPolicy, max int) ([]byte, error)

	// Close 拆除阶段，释放队列绑定
	//
	// 幂等。进行中的阻塞读取会及时观察到拆除并返回 ErrStreamAborted。
	Close() error
}

// OutputStage 定义输出方向的管道阶段
//
// 输出阶段把引擎产出的响应字节按调用顺序推入多路复用器的
// 每流出站队列。
type OutputStage interface {
	// Write 写出响应数据
	Write(p []byte) (n int, err error)

	// Started 报告是否已写出过任何数据
	//
	// 任务在引擎返回后检查该标志：从未产生输出的流会被重置，
	// 避免永久悬挂。
	Started() bool

	// Close 拆除阶段，释放队列绑定
	//
	// 幂等。之后的 Write 返回 ErrStreamAborted。
	Close() error
}

// StageHost 定义管道阶段的安装点
//
// 合成连接上下文实现本接口。安装两个桥接阶段并认领连接后，
// 连接被独占接管：默认的网络处理不再参与，未安装阶段的方向
// 拒绝 I/O。
type StageHost interface {
	// InstallInput 安装命名输入阶段
	InstallInput(name string, stage InputStage) error

	// InstallOutput 安装命名输出阶段
	InstallOutput(name string, stage OutputStage) error

	// Claim 独占认领连接
	//
	// 重复认领返回错误。
	Claim() error
}
