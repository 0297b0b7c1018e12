package session

import (
	"io"
	"math"
	"time"

	"github.com/libp2p/go-yamux/v4"

	"github.com/dep2p/go-streamtask/config"
)

// yamuxConfig 把会话驱动配置映射为 yamux 配置
func yamuxConfig(cfg *config.SessionConfig) *yamux.Config {
	yc := yamux.DefaultConfig()

	if cfg.AcceptBacklog > 0 {
		yc.AcceptBacklog = cfg.AcceptBacklog
	}
	yc.EnableKeepAlive = cfg.EnableKeepAlive
	if interval := time.Duration(cfg.KeepAliveInterval); interval > 0 {
		yc.KeepAliveInterval = interval
	}

	// yamux 拒绝小于 256 KiB 的接收窗口
	win := cfg.MaxStreamWindowBytes
	if win < 256*1024 {
		win = 256 * 1024
	}
	yc.MaxStreamWindowSize = win

	// 禁用 yamux 自身的日志输出
	yc.LogOutput = io.Discard

	// 读缓冲交给会话泵，yamux 不再缓一层
	yc.ReadBufSize = 0

	// 入站流数量由执行器池的容量背压控制
	yc.MaxIncomingStreams = math.MaxUint32

	return yc
}
