// Package config 提供统一的配置管理
package config

import "fmt"

// WorkersConfig 执行器池配置
//
// 执行器池为每个任务分配一个 goroutine 运行到完成，
// PoolSize 限制同时执行的任务数。
type WorkersConfig struct {
	// PoolSize 同时执行的任务数上限
	// 池满时 Submit 阻塞等待空位（简单先到先得，无优先级调度）。
	// 默认值: 16
	PoolSize int `json:"pool_size"`
}

// DefaultWorkersConfig 返回默认的执行器池配置
func DefaultWorkersConfig() WorkersConfig {
	return WorkersConfig{
		PoolSize: 16,
	}
}

// Validate 验证执行器池配置的有效性
func (c *WorkersConfig) Validate() error {
	if c.PoolSize <= 0 {
		return fmt.Errorf("invalid workers config: pool_size must be > 0, got %d", c.PoolSize)
	}
	return nil
}
