package streamtask

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-streamtask/config"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// config 全局配置
	config *config.Config

	// engine 流处理引擎
	engine pkgif.Engine

	// userFxOptions 用户扩展的 Fx 选项
	userFxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{
		config: config.NewConfig(),
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              引擎选项
// ════════════════════════════════════════════════════════════════════════════

// WithEngine 设置流处理引擎
//
// 引擎是必填项：每个逻辑流的任务都会在合成连接上调用一次
// engine.Process。
func WithEngine(e Engine) Option {
	return func(o *options) error {
		if e == nil {
			return ErrNilEngine
		}
		o.engine = e
		return nil
	}
}

// WithEngineFunc 用函数设置流处理引擎
func WithEngineFunc(f func(ctx context.Context, conn ConnContext) error) Option {
	return func(o *options) error {
		if f == nil {
			return ErrNilEngine
		}
		o.engine = EngineFunc(f)
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              配置选项
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 设置完整配置
//
// 覆盖默认配置，与其他配置选项组合时注意顺序：后应用的选项生效。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("config must not be nil")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigJSON 从 JSON 数据加载配置
func WithConfigJSON(data []byte) Option {
	return func(o *options) error {
		cfg, err := config.FromJSON(data)
		if err != nil {
			return fmt.Errorf("load config from json: %w", err)
		}
		o.config = cfg
		return nil
	}
}

// WithPreset 应用命名预设配置
//
// 支持的预设见 config.ApplyPreset。
func WithPreset(name string) Option {
	return func(o *options) error {
		return config.ApplyPreset(o.config, name)
	}
}

// WithWorkerPoolSize 设置执行器池容量
func WithWorkerPoolSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("worker pool size must be > 0, got %d", n)
		}
		o.config.Workers.PoolSize = n
		return nil
	}
}

// WithArenaLimit 设置每任务竞技场的内存上限（字节）
func WithArenaLimit(bytes int64) Option {
	return func(o *options) error {
		if bytes < 0 {
			return fmt.Errorf("arena limit must be >= 0, got %d", bytes)
		}
		o.config.Task.ArenaLimitBytes = bytes
		return nil
	}
}

// WithStreamBufferLimit 设置每流单方向的排队字节上限（0 不限制）
func WithStreamBufferLimit(bytes int) Option {
	return func(o *options) error {
		if bytes < 0 {
			return fmt.Errorf("stream buffer limit must be >= 0, got %d", bytes)
		}
		o.config.Mplx.MaxStreamBufferBytes = bytes
		return nil
	}
}

// WithKeepAlive 设置传输层保活
func WithKeepAlive(enable bool, interval time.Duration) Option {
	return func(o *options) error {
		if enable && interval <= 0 {
			return fmt.Errorf("keep-alive interval must be > 0, got %v", interval)
		}
		o.config.Session.EnableKeepAlive = enable
		if interval > 0 {
			o.config.Session.KeepAliveInterval = config.Duration(interval)
		}
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              扩展选项
// ════════════════════════════════════════════════════════════════════════════

// WithFxOptions 注入用户自定义的 Fx 选项
//
// 供高级用户扩展依赖图（如替换指标上报实现），常规使用不需要。
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
