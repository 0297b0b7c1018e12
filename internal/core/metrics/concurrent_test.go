package metrics

import (
	"sync"
	"testing"

	"github.com/dep2p/go-streamtask/pkg/types"
)

// TestTaskCounter_Concurrent 测试并发记录
func TestTaskCounter_Concurrent(t *testing.T) {
	const (
		numGoroutines = 10
		numOps        = 100
	)

	tc := NewTaskCounter()

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		sessionID := types.SessionID(i % 3)
		go func() {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				tc.LogTaskCreated(sessionID)
				tc.LogBytesIn(10, sessionID)
				tc.LogBytesOut(5, sessionID)
				tc.LogTaskCompleted(sessionID)
			}
		}()
	}
	wg.Wait()

	snap := tc.GetTotals()
	want := int64(numGoroutines * numOps)
	if snap.Created != want {
		t.Errorf("Created = %d, want %d", snap.Created, want)
	}
	if snap.Completed != want {
		t.Errorf("Completed = %d, want %d", snap.Completed, want)
	}
	if snap.BytesIn != want*10 {
		t.Errorf("BytesIn = %d, want %d", snap.BytesIn, want*10)
	}
	if snap.BytesOut != want*5 {
		t.Errorf("BytesOut = %d, want %d", snap.BytesOut, want*5)
	}
}

// TestTaskCounter_ConcurrentReadWrite 测试并发读写
func TestTaskCounter_ConcurrentReadWrite(t *testing.T) {
	const numOps = 200

	tc := NewTaskCounter()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for j := 0; j < numOps; j++ {
			tc.LogTaskCreated(types.SessionID(j % 5))
		}
	}()
	go func() {
		defer wg.Done()
		for j := 0; j < numOps; j++ {
			_ = tc.GetTotals()
			_ = tc.GetBySession()
		}
	}()
	go func() {
		defer wg.Done()
		for j := 0; j < numOps; j++ {
			_ = tc.GetForSession(types.SessionID(j % 5))
		}
	}()
	wg.Wait()

	if snap := tc.GetTotals(); snap.Created != numOps {
		t.Errorf("Created = %d, want %d", snap.Created, numOps)
	}
}
