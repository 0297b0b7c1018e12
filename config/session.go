// Package config 提供统一的配置管理
package config

import (
	"fmt"
	"time"
)

// SessionConfig 会话驱动配置
//
// 会话驱动在一条共享传输连接上接受多路复用流，并在流与
// 多路复用器队列之间泵送数据。传输层分帧与流控由 yamux 负责，
// 这里只暴露其关键参数。
type SessionConfig struct {
	// ReadChunkSize 从传输流读取入站数据的缓冲区大小
	// 默认值: 16384 (16 KiB)
	ReadChunkSize int `json:"read_chunk_size"`

	// MaxStreamWindowBytes 每流接收窗口大小（yamux）
	// 窗口越大，高延迟链路上的吞吐越高。最小 262144 (256 KiB)。
	// 默认值: 16777216 (16 MiB)
	MaxStreamWindowBytes uint32 `json:"max_stream_window_bytes"`

	// AcceptBacklog 等待接受的流的积压上限（yamux）
	// 默认值: 256
	AcceptBacklog int `json:"accept_backlog"`

	// EnableKeepAlive 是否启用传输层保活
	// 默认值: true
	EnableKeepAlive bool `json:"enable_keep_alive"`

	// KeepAliveInterval 保活探测间隔
	// 默认值: 30s
	KeepAliveInterval Duration `json:"keep_alive_interval"`
}

// minStreamWindowBytes yamux 允许的最小接收窗口
const minStreamWindowBytes = 256 * 1024

// DefaultSessionConfig 返回默认的会话驱动配置
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		ReadChunkSize:        16 * 1024,
		MaxStreamWindowBytes: 16 * 1024 * 1024,
		AcceptBacklog:        256,
		EnableKeepAlive:      true,
		KeepAliveInterval:    Duration(30 * time.Second),
	}
}

// Validate 验证会话驱动配置的有效性
func (c *SessionConfig) Validate() error {
	if c.ReadChunkSize <= 0 {
		return fmt.Errorf("invalid session config: read_chunk_size must be > 0, got %d", c.ReadChunkSize)
	}
	if c.MaxStreamWindowBytes < minStreamWindowBytes {
		return fmt.Errorf("invalid session config: max_stream_window_bytes must be >= %d, got %d",
			minStreamWindowBytes, c.MaxStreamWindowBytes)
	}
	if c.AcceptBacklog <= 0 {
		return fmt.Errorf("invalid session config: accept_backlog must be > 0, got %d", c.AcceptBacklog)
	}
	if c.EnableKeepAlive && c.KeepAliveInterval <= 0 {
		return fmt.Errorf("invalid session config: keep_alive_interval must be > 0 when keep-alive is enabled")
	}
	return nil
}
