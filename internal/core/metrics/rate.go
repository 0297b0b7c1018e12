package metrics

import (
	"sync"
	"time"
)

// ============================================================================
// RateMeter - 速率计算器
// ============================================================================

// rateWindow 滑动窗口长度（秒）
const rateWindow = 60

// RateMeter 速率计算器（基于滑动窗口）
//
// 使用 rateWindow 个 1 秒槽位计算最近一段时间的平均速率。
type RateMeter struct {
	mu    sync.RWMutex
	slots [rateWindow]int64
	idx   int       // 当前写入的槽位索引
	last  time.Time // 最后更新时间
}

// NewRateMeter 创建速率计算器
func NewRateMeter() *RateMeter {
	return &RateMeter{
		last: time.Now(),
	}
}

// Add 添加字节数到当前槽位
func (r *RateMeter) Add(bytes int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(r.last)

	if elapsed >= time.Second {
		seconds := int(elapsed.Seconds())
		if seconds >= rateWindow {
			// 整个窗口已过期
			r.slots = [rateWindow]int64{}
			r.idx = 0
		} else {
			// 推进并清空经过的槽位
			for i := 0; i < seconds; i++ {
				r.idx = (r.idx + 1) % rateWindow
				r.slots[r.idx] = 0
			}
		}
		r.last = now
	}

	r.slots[r.idx] += bytes
}

// Rate 返回窗口内的平均速率（字节/秒）
func (r *RateMeter) Rate() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, v := range r.slots {
		total += v
	}
	return float64(total) / float64(rateWindow)
}

// Reset 重置速率计算器
func (r *RateMeter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots = [rateWindow]int64{}
	r.idx = 0
	r.last = time.Now()
}

// LastUpdate 返回最后更新时间
func (r *RateMeter) LastUpdate() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}
