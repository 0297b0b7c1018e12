package config

import "time"

// NewServerConfig 创建服务器预设配置
//
// 面向高并发入口：更大的执行器池与每流缓冲，保活开启。
func NewServerConfig() *Config {
	cfg := NewConfig()
	applyServerPreset(cfg)
	return cfg
}

// NewMinimalConfig 创建最小预设配置
//
// 面向测试与资源受限环境：单执行器、小缓冲、关闭保活。
func NewMinimalConfig() *Config {
	cfg := NewConfig()
	applyMinimalPreset(cfg)
	return cfg
}

// applyServerPreset 应用服务器预设
func applyServerPreset(cfg *Config) {
	cfg.Workers.PoolSize = 64
	cfg.Mplx.MaxStreamBufferBytes = 1024 * 1024
	cfg.Session.MaxStreamWindowBytes = 16 * 1024 * 1024
	cfg.Session.AcceptBacklog = 512
	cfg.Session.EnableKeepAlive = true
	cfg.Session.KeepAliveInterval = Duration(30 * time.Second)
}

// applyMinimalPreset 应用最小预设
func applyMinimalPreset(cfg *Config) {
	cfg.Task.ArenaLimitBytes = 1024 * 1024
	cfg.Task.ReadChunkSize = 4 * 1024
	cfg.Task.WriteChunkSize = 4 * 1024
	cfg.Workers.PoolSize = 1
	cfg.Mplx.MaxStreamBufferBytes = 64 * 1024
	cfg.Session.ReadChunkSize = 4 * 1024
	cfg.Session.MaxStreamWindowBytes = minStreamWindowBytes
	cfg.Session.AcceptBacklog = 16
	cfg.Session.EnableKeepAlive = false
}
