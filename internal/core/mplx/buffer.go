package mplx

import (
	"github.com/eapache/queue"
)

// buffer 单方向的字节队列
//
// 以块为单位排队，支持部分消费：队首块被部分取走后，剩余部分
// 保留在 head 中供下次取用。所有方法必须在所属流的锁内调用。
type buffer struct {
	chunks *queue.Queue // 排队中的块（[]byte）
	head   []byte       // 队首块中尚未消费的部分
	size   int          // 缓冲的总字节数
	eos    bool         // 该方向已结束，不会再有新数据
	wake   chan struct{} // 广播通道，状态变化时关闭并重建
}

func newBuffer() *buffer {
	return &buffer{
		chunks: queue.New(),
		wake:   make(chan struct{}),
	}
}

// notify 唤醒该方向上的所有等待者
func (b *buffer) notify() {
	close(b.wake)
	b.wake = make(chan struct{})
}

// empty 报告是否无缓冲数据
func (b *buffer) empty() bool {
	return b.size == 0
}

// push 复制 p 并入队
func (b *buffer) push(p []byte) {
	c := make([]byte, len(p))
	copy(c, p)
	b.chunks.Add(c)
	b.size += len(c)
	b.notify()
}

// pop 取出至多 max 字节（max <= 0 表示取整个队首块）
//
// 返回切片的所有权转移给调用方。队列为空时返回 nil。
func (b *buffer) pop(max int) []byte {
	if len(b.head) == 0 {
		if b.chunks.Length() == 0 {
			return nil
		}
		b.head = b.chunks.Remove().([]byte)
	}

	var out []byte
	if max > 0 && max < len(b.head) {
		out = b.head[:max:max]
		b.head = b.head[max:]
	} else {
		out = b.head
		b.head = nil
	}
	b.size -= len(out)
	b.notify()
	return out
}
