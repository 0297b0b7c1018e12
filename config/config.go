// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//   - 支持预设配置（server/minimal）
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Workers.PoolSize = 32
//	cfg.Session.EnableKeepAlive = false
//
//	// 使用预设配置
//	cfg := config.NewServerConfig()
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

// Config 是 streamtask 的完整配置结构
//
// 该结构体嵌入了所有组件的子配置，提供统一的配置接口。
// 配置按照功能模块组织：
//   - Task: 流任务（竞技场上限、读写块大小）
//   - Mplx: 多路复用器（每流队列容量）
//   - Workers: 执行器池（并发度）
//   - Session: 会话驱动（传输窗口、保活）
type Config struct {
	// Task 流任务配置
	Task TaskConfig `json:"task"`

	// Mplx 多路复用器配置
	Mplx MplxConfig `json:"mplx"`

	// Workers 执行器池配置
	Workers WorkersConfig `json:"workers"`

	// Session 会话驱动配置
	Session SessionConfig `json:"session"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数场景。
// 可以通过修改字段或使用预设来定制配置。
func NewConfig() *Config {
	return &Config{
		Task:    DefaultTaskConfig(),
		Mplx:    DefaultMplxConfig(),
		Workers: DefaultWorkersConfig(),
		Session: DefaultSessionConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，如果发现无效配置则返回错误。
// 建议在使用配置前调用此方法。
func (c *Config) Validate() error {
	if err := c.Task.Validate(); err != nil {
		return err
	}
	if err := c.Mplx.Validate(); err != nil {
		return err
	}
	if err := c.Workers.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return err
	}
	return nil
}
