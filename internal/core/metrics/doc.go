// Package metrics 提供任务与流量指标收集
//
// metrics 模块实现流任务的运行统计，提供：
//   - 任务生命周期计数（创建/完成/中止）
//   - 流重置计数
//   - 字节流量统计（全局/按会话）
//   - 流量速率计算（滑动窗口）
//   - 内存管理（TrimIdle 清理空闲会话统计）
//
// # 快速开始
//
//	counter := metrics.NewTaskCounter()
//
//	// 记录任务事件
//	counter.LogTaskCreated(sessionID)
//	counter.LogTaskCompleted(sessionID)
//
//	// 记录流量
//	counter.LogBytesIn(1024, sessionID)
//	counter.LogBytesOut(2048, sessionID)
//
//	// 获取统计
//	snap := counter.GetTotals()
//	fmt.Printf("Created: %d, Completed: %d\n", snap.Created, snap.Completed)
//	fmt.Printf("In: %d B (%.2f B/s)\n", snap.BytesIn, snap.RateIn)
//
// # 分层统计
//
// metrics 支持两层统计：
//
//	// 1. 全局统计（所有会话）
//	totals := counter.GetTotals()
//
//	// 2. 按会话统计
//	snap := counter.GetForSession(types.SessionID(7))
//
// # Fx 模块
//
//	import "go.uber.org/fx"
//
//	app := fx.New(
//	    metrics.Module,
//	    fx.Invoke(func(reporter metrics.Reporter) {
//	        reporter.LogTaskCreated(1)
//	        snap := reporter.GetTotals()
//	        log.Printf("Snapshot: %+v", snap)
//	    }),
//	)
//
// # 内存管理
//
// 会话结束后其统计仍保留在计数器中，定期清理防止内存泄漏：
//
//	// 清理 1 小时前无活动的会话统计
//	counter.TrimIdle(time.Now().Add(-1 * time.Hour))
//
// # 架构定位
//
// Tier: Core Layer Level 1（无依赖）
//
// 依赖关系：
//   - 依赖：pkg/types
//   - 被依赖：mplx, session
//
// # 并发安全
//
// 所有方法都是并发安全的：
//   - 全局计数使用原子操作
//   - 会话表由读写锁保护
package metrics
