package metrics

import (
	"testing"
)

// TestRateMeter_Add 测试速率累加
func TestRateMeter_Add(t *testing.T) {
	r := NewRateMeter()

	r.Add(600)
	r.Add(600)

	// 1200 字节落在 60 秒窗口内, 平均 20 B/s
	if got := r.Rate(); got != 20.0 {
		t.Errorf("Rate() = %f, want 20.0", got)
	}
}

// TestRateMeter_Reset 测试速率重置
func TestRateMeter_Reset(t *testing.T) {
	r := NewRateMeter()

	r.Add(1000)
	r.Reset()

	if got := r.Rate(); got != 0 {
		t.Errorf("Rate() = %f after Reset, want 0", got)
	}
}

// TestRateMeter_LastUpdate 测试最后更新时间
func TestRateMeter_LastUpdate(t *testing.T) {
	r := NewRateMeter()
	before := r.LastUpdate()

	if before.IsZero() {
		t.Error("LastUpdate() is zero for fresh meter")
	}
}
