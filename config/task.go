// Package config 提供统一的配置管理
package config

import "fmt"

// TaskConfig 流任务配置
//
// 控制单个流任务的内存上限与桥接阶段的读写块大小。
type TaskConfig struct {
	// ArenaLimitBytes 任务竞技场的内存上限（字节）
	// 0 表示不限制。超限的分配会导致任务创建失败并重置流。
	// 默认值: 4194304 (4 MiB)
	ArenaLimitBytes int64 `json:"arena_limit_bytes"`

	// ReadChunkSize 输入阶段单次读取的默认最大字节数
	// 调用方未指定长度时生效。
	// 默认值: 16384 (16 KiB)
	ReadChunkSize int `json:"read_chunk_size"`

	// WriteChunkSize 输出阶段写入队列的分块大小
	// 更大的写入会按此大小拆分入队，保持出站队列块粒度均匀。
	// 默认值: 16384 (16 KiB)
	WriteChunkSize int `json:"write_chunk_size"`
}

// DefaultTaskConfig 返回默认的流任务配置
func DefaultTaskConfig() TaskConfig {
	return TaskConfig{
		ArenaLimitBytes: 4 * 1024 * 1024,
		ReadChunkSize:   16 * 1024,
		WriteChunkSize:  16 * 1024,
	}
}

// Validate 验证流任务配置的有效性
func (c *TaskConfig) Validate() error {
	if c.ArenaLimitBytes < 0 {
		return fmt.Errorf("invalid task config: arena_limit_bytes must be >= 0, got %d", c.ArenaLimitBytes)
	}
	if c.ReadChunkSize <= 0 {
		return fmt.Errorf("invalid task config: read_chunk_size must be > 0, got %d", c.ReadChunkSize)
	}
	if c.WriteChunkSize <= 0 {
		return fmt.Errorf("invalid task config: write_chunk_size must be > 0, got %d", c.WriteChunkSize)
	}
	return nil
}
