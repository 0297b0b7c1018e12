package bridge

import (
	"github.com/dep2p/go-streamtask/internal/core/pipeline"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
)

// RegisterStages 把两个桥接阶段工厂注册到注册表
//
// 供 pipeline.EnsureDefault 在进程初始化时调用一次。
func RegisterStages(r *pipeline.Registry) error {
	if err := r.RegisterInput(pipeline.StageMuxToConn, func(b pipeline.Binding) pkgif.InputStage {
		return NewInput(b)
	}); err != nil {
		return err
	}
	return r.RegisterOutput(pipeline.StageConnToMux, func(b pipeline.Binding) pkgif.OutputStage {
		return NewOutput(b)
	})
}
