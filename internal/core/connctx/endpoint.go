package connctx

import (
	"fmt"
	"net"
	"sync"

	"github.com/dep2p/go-streamtask/internal/core/arena"
	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/types"
)

// endpointFootprint 端点在竞技场中的记账占用（字节）
//
// 端点没有真实的传输资源，占用一个象征性的配额以模拟其存续期，
// 并让"竞技场耗尽/销毁后无法装配端点"成为可判定的失败。
const endpointFootprint = 64

// AddrNetwork 合成地址的网络名
const AddrNetwork = "streamtask"

// streamAddr 合成网络地址
type streamAddr struct {
	addr string
}

var _ net.Addr = streamAddr{}

// Network 返回网络名
func (a streamAddr) Network() string { return AddrNetwork }

// String 返回地址文本
func (a streamAddr) String() string { return a.addr }

// ============================================================================
// SyntheticEndpoint - 合成传输端点
// ============================================================================

// SyntheticEndpoint 合成传输端点
//
// 只承载地址元数据，从不连接任何外部对端。Close 幂等，释放竞技场
// 中的记账占用。
type SyntheticEndpoint struct {
	local  net.Addr
	remote net.Addr

	arena     *arena.Arena
	closeOnce sync.Once
}

var _ pkgif.Endpoint = (*SyntheticEndpoint)(nil)

// NewEndpoint 装配合成端点
//
// 地址由会话/流标识派生。竞技场已销毁或配额不足时装配失败。
func NewEndpoint(a *arena.Arena, sessionID types.SessionID, streamID types.StreamID) (*SyntheticEndpoint, error) {
	if err := a.Reserve(endpointFootprint); err != nil {
		return nil, fmt.Errorf("fabricate endpoint: %w", err)
	}

	return &SyntheticEndpoint{
		local:  streamAddr{addr: fmt.Sprintf("session/%d", sessionID)},
		remote: streamAddr{addr: fmt.Sprintf("stream/%s", types.LogID(sessionID, streamID))},
		arena:  a,
	}, nil
}

// LocalAddr 返回本端地址
func (e *SyntheticEndpoint) LocalAddr() net.Addr { return e.local }

// RemoteAddr 返回对端地址
func (e *SyntheticEndpoint) RemoteAddr() net.Addr { return e.remote }

// Close 释放端点
func (e *SyntheticEndpoint) Close() error {
	e.closeOnce.Do(func() {
		e.arena.Release(endpointFootprint)
	})
	return nil
}
