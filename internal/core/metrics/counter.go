package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-streamtask/pkg/types"
)

// TaskCounter 任务计数器
//
// TaskCounter 跟踪任务的生命周期事件与流量。
// 全局计数使用原子操作，按会话的计数由读写锁保护。
type TaskCounter struct {
	// 全局计数器（使用 atomic）
	created   atomic.Int64
	completed atomic.Int64
	aborted   atomic.Int64
	resets    atomic.Int64
	bytesIn   atomic.Int64
	bytesOut  atomic.Int64

	// 速率计算器
	inRate  *RateMeter
	outRate *RateMeter

	// 会话级计数器
	sessionMu sync.RWMutex
	sessions  map[types.SessionID]*sessionStats
}

// sessionStats 单个会话的统计
type sessionStats struct {
	created    atomic.Int64
	completed  atomic.Int64
	aborted    atomic.Int64
	resets     atomic.Int64
	bytesIn    atomic.Int64
	bytesOut   atomic.Int64
	lastActive atomic.Int64 // Unix nano
}

func (s *sessionStats) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// NewTaskCounter 创建新的 TaskCounter
func NewTaskCounter() *TaskCounter {
	return &TaskCounter{
		inRate:   NewRateMeter(),
		outRate:  NewRateMeter(),
		sessions: make(map[types.SessionID]*sessionStats),
	}
}

// forSession 返回会话统计，不存在则创建
func (tc *TaskCounter) forSession(id types.SessionID) *sessionStats {
	tc.sessionMu.RLock()
	stats := tc.sessions[id]
	tc.sessionMu.RUnlock()
	if stats != nil {
		return stats
	}

	tc.sessionMu.Lock()
	stats = tc.sessions[id]
	if stats == nil {
		stats = &sessionStats{}
		tc.sessions[id] = stats
	}
	tc.sessionMu.Unlock()
	return stats
}

// LogTaskCreated 记录任务创建
func (tc *TaskCounter) LogTaskCreated(id types.SessionID) {
	tc.created.Add(1)
	s := tc.forSession(id)
	s.created.Add(1)
	s.touch()
}

// LogTaskCompleted 记录任务完成
func (tc *TaskCounter) LogTaskCompleted(id types.SessionID) {
	tc.completed.Add(1)
	s := tc.forSession(id)
	s.completed.Add(1)
	s.touch()
}

// LogTaskAborted 记录任务中止
func (tc *TaskCounter) LogTaskAborted(id types.SessionID) {
	tc.aborted.Add(1)
	s := tc.forSession(id)
	s.aborted.Add(1)
	s.touch()
}

// LogStreamReset 记录流重置
func (tc *TaskCounter) LogStreamReset(id types.SessionID) {
	tc.resets.Add(1)
	s := tc.forSession(id)
	s.resets.Add(1)
	s.touch()
}

// LogBytesIn 记录入站字节数
func (tc *TaskCounter) LogBytesIn(size int64, id types.SessionID) {
	tc.bytesIn.Add(size)
	tc.inRate.Add(size)
	s := tc.forSession(id)
	s.bytesIn.Add(size)
	s.touch()
}

// LogBytesOut 记录出站字节数
func (tc *TaskCounter) LogBytesOut(size int64, id types.SessionID) {
	tc.bytesOut.Add(size)
	tc.outRate.Add(size)
	s := tc.forSession(id)
	s.bytesOut.Add(size)
	s.touch()
}

// GetTotals 返回全局统计
func (tc *TaskCounter) GetTotals() Snapshot {
	return Snapshot{
		Created:   tc.created.Load(),
		Completed: tc.completed.Load(),
		Aborted:   tc.aborted.Load(),
		Resets:    tc.resets.Load(),
		BytesIn:   tc.bytesIn.Load(),
		BytesOut:  tc.bytesOut.Load(),
		RateIn:    tc.inRate.Rate(),
		RateOut:   tc.outRate.Rate(),
	}
}

// GetForSession 返回单个会话的统计
func (tc *TaskCounter) GetForSession(id types.SessionID) Snapshot {
	tc.sessionMu.RLock()
	stats := tc.sessions[id]
	tc.sessionMu.RUnlock()

	if stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Created:   stats.created.Load(),
		Completed: stats.completed.Load(),
		Aborted:   stats.aborted.Load(),
		Resets:    stats.resets.Load(),
		BytesIn:   stats.bytesIn.Load(),
		BytesOut:  stats.bytesOut.Load(),
	}
}

// GetBySession 返回所有会话的统计
func (tc *TaskCounter) GetBySession() map[types.SessionID]Snapshot {
	tc.sessionMu.RLock()
	defer tc.sessionMu.RUnlock()

	result := make(map[types.SessionID]Snapshot, len(tc.sessions))
	for id, stats := range tc.sessions {
		result[id] = Snapshot{
			Created:   stats.created.Load(),
			Completed: stats.completed.Load(),
			Aborted:   stats.aborted.Load(),
			Resets:    stats.resets.Load(),
			BytesIn:   stats.bytesIn.Load(),
			BytesOut:  stats.bytesOut.Load(),
		}
	}
	return result
}

// Reset 清除所有统计
func (tc *TaskCounter) Reset() {
	tc.created.Store(0)
	tc.completed.Store(0)
	tc.aborted.Store(0)
	tc.resets.Store(0)
	tc.bytesIn.Store(0)
	tc.bytesOut.Store(0)

	tc.inRate.Reset()
	tc.outRate.Reset()

	tc.sessionMu.Lock()
	tc.sessions = make(map[types.SessionID]*sessionStats)
	tc.sessionMu.Unlock()
}

// TrimIdle 清理在 since 之前无活动的会话统计
func (tc *TaskCounter) TrimIdle(since time.Time) {
	cutoff := since.UnixNano()

	tc.sessionMu.Lock()
	for id, stats := range tc.sessions {
		if stats.lastActive.Load() < cutoff {
			delete(tc.sessions, id)
		}
	}
	tc.sessionMu.Unlock()
}
