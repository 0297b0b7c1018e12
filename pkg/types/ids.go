package types

import "fmt"

// ============================================================================
//                              SessionID - 会话标识
// ============================================================================

// SessionID 共享传输连接的标识
//
// 每接入一条承载多路复用流的传输连接，就分配一个新的 SessionID。
// 会话内的所有任务共享同一个 SessionID。
type SessionID int64

// String 返回 SessionID 的字符串表示
func (id SessionID) String() string {
	return fmt.Sprintf("%d", int64(id))
}

// ============================================================================
//                              StreamID - 流标识
// ============================================================================

// StreamID 会话内逻辑流的标识
//
// 由传输层协议引擎分配，在所属会话内唯一。
type StreamID uint32

// String 返回 StreamID 的字符串表示
func (id StreamID) String() string {
	return fmt.Sprintf("%d", uint32(id))
}

// ============================================================================
//                              LogID - 日志关联标识
// ============================================================================

// LogID 返回 "会话-流" 形式的日志关联标识
//
// 用于在日志中关联同一逻辑流的全部事件，例如 "7-13"。
func LogID(session SessionID, stream StreamID) string {
	return fmt.Sprintf("%d-%d", int64(session), uint32(stream))
}
