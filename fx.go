package streamtask

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-streamtask/internal/core/bridge"
	"github.com/dep2p/go-streamtask/internal/core/metrics"
	"github.com/dep2p/go-streamtask/internal/core/pipeline"
	"github.com/dep2p/go-streamtask/internal/core/workers"
)

// buildFxApp 构建 Fx 应用
//
// 组装服务的内部模块：
//  1. 配置注入
//  2. 指标上报（metrics.Module）
//  3. 执行器池（workers.Module，关闭挂在应用生命周期上）
//  4. 管道阶段注册（进程默认注册表 + 桥接阶段）
//  5. 用户扩展（Fx Options）
//  6. Service 组件注入
func buildFxApp(o *options, svc *Service) (*fx.App, error) {
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		// 配置注入
		fx.Supply(o.config),

		// 指标上报
		metrics.Module,

		// 执行器池
		workers.Module,

		// 管道阶段注册
		fx.Provide(provideRegistry),
	}

	// 用户扩展
	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	// Service 组件注入
	modules = append(modules, fx.Invoke(injectServiceComponents(svc)))

	// 禁用 Fx 日志输出（避免干扰用户日志）
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
		fx.NopLogger,
	)

	return fx.New(modules...), nil
}

// provideRegistry 提供装好桥接阶段的进程默认注册表
func provideRegistry() (*pipeline.Registry, error) {
	return pipeline.EnsureDefault(bridge.RegisterStages)
}

// serviceInjectParams Service 组件注入参数
type serviceInjectParams struct {
	fx.In

	Pool     *workers.Pool
	Reporter metrics.Reporter
	Registry *pipeline.Registry
}

// injectServiceComponents 创建 Service 组件注入函数
func injectServiceComponents(svc *Service) interface{} {
	return func(params serviceInjectParams) {
		svc.pool = params.Pool
		svc.reporter = params.Reporter
		svc.registry = params.Registry
	}
}
