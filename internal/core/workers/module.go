package workers

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-streamtask/config"
)

// newPoolFromConfig 从全局配置构建执行器池
func newPoolFromConfig(cfg *config.Config) *Pool {
	if cfg == nil {
		return New(nil)
	}
	return New(&cfg.Workers)
}

// registerLifecycle 把池的开闭挂到应用生命周期
//
// 应用支持 Start/Stop 多轮，OnStart 重新开放上一轮停止时关闭的池。
func registerLifecycle(lc fx.Lifecycle, p *Pool) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			p.reopen()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return p.CloseWithContext(ctx)
		},
	})
}

// Module 是 workers 的 Fx 模块
var Module = fx.Module("workers",
	fx.Provide(newPoolFromConfig),
	fx.Invoke(registerLifecycle),
)
