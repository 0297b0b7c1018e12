package metrics

import (
	"time"

	"github.com/dep2p/go-streamtask/pkg/types"
)

// Reporter 提供记录和检索任务指标的方法
type Reporter interface {
	// LogTaskCreated 记录任务创建
	LogTaskCreated(types.SessionID)

	// LogTaskCompleted 记录任务完成
	LogTaskCompleted(types.SessionID)

	// LogTaskAborted 记录任务中止
	LogTaskAborted(types.SessionID)

	// LogStreamReset 记录流重置
	LogStreamReset(types.SessionID)

	// LogBytesIn 记录入站字节数
	LogBytesIn(int64, types.SessionID)

	// LogBytesOut 记录出站字节数
	LogBytesOut(int64, types.SessionID)

	// GetTotals 获取全局统计
	GetTotals() Snapshot

	// GetForSession 获取单个会话统计
	GetForSession(types.SessionID) Snapshot

	// GetBySession 获取所有会话统计
	GetBySession() map[types.SessionID]Snapshot

	// Reset 重置所有统计
	Reset()

	// TrimIdle 清理空闲会话统计
	TrimIdle(since time.Time)
}

// 确保 TaskCounter 实现 Reporter 接口
var _ Reporter = (*TaskCounter)(nil)
