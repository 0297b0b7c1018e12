// Package arena 实现任务域分配区
//
// 一个 Arena 的生命周期与一个流任务完全重合：任务创建时新建，
// 任务销毁时一步整体释放。任务持有的全部资源（连接上下文、
// 管道适配器、缓冲区）都登记在它名下，保证拆除顺序确定、
// 销毁后访问可被显式检测。
//
// # 快速开始
//
//	ar := arena.New(4 << 20)
//	defer ar.Destroy()
//
//	// 内存记账
//	if err := ar.Reserve(1024); err != nil {
//	    return err
//	}
//
//	// 登记清理动作（销毁时按 LIFO 执行）
//	ar.OnDestroy(conn.Close)
//
//	// 缓冲分配器
//	buf, _ := ar.Buffers().Get(4096)
//	defer ar.Buffers().Put(buf)
//
// # 语义
//
//   - Reserve/Release: 原子内存记账，超过上限返回 ErrArenaLimitExceeded
//   - OnDestroy: 登记清理函数，Destroy 时按登记逆序（LIFO）执行
//   - Destroy: 恰好执行一次；之后 Arena 进入毒化状态，
//     Reserve/OnDestroy/Buffers().Get 均返回 ErrArenaDestroyed
//
// # 并发安全
//
//   - 记账计数：atomic（热路径）
//   - 清理列表与空闲缓冲：sync.Mutex（冷路径）
//   - 销毁：sync.Once + atomic.Bool
//
// 一个 Arena 只属于一个任务，不跨任务共享。
package arena
