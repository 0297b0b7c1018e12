// Package config 提供统一的配置管理
package config

import "fmt"

// MplxConfig 多路复用器配置
//
// 控制每流入站/出站队列的缓冲容量。
type MplxConfig struct {
	// MaxStreamBufferBytes 单个流单方向允许排队的最大字节数
	// 达到上限后入队操作阻塞，由此向生产方施加背压。
	// 0 表示不限制。
	// 默认值: 262144 (256 KiB)
	MaxStreamBufferBytes int `json:"max_stream_buffer_bytes"`
}

// DefaultMplxConfig 返回默认的多路复用器配置
func DefaultMplxConfig() MplxConfig {
	return MplxConfig{
		MaxStreamBufferBytes: 256 * 1024,
	}
}

// Validate 验证多路复用器配置的有效性
func (c *MplxConfig) Validate() error {
	if c.MaxStreamBufferBytes < 0 {
		return fmt.Errorf("invalid mplx config: max_stream_buffer_bytes must be >= 0, got %d", c.MaxStreamBufferBytes)
	}
	return nil
}
