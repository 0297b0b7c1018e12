// Package workers 提供任务执行器池
//
// workers 模块把流任务的同步执行（Run 运行到完成）装进有界的
// goroutine 池：每次 Submit 占用一个执行位，在独立 goroutine 中
// 完成 运行状态标记 → 引擎执行 → 完成回调 的完整闭环，池满时
// Submit 阻塞等待空位或 ctx 取消。
//
// 执行位用加权信号量实现，先到先得，没有优先级调度。
//
// # 快速开始
//
//	pool := workers.New(&cfg.Workers)
//	defer pool.Close()
//
//	err := pool.Submit(ctx, t, engine, func(runErr error) {
//	    // Run 返回后、执行位释放前调用
//	    _ = t.Destroy()
//	})
//
// # 状态标记
//
// 池在调用 Run 前把任务置为 RunRunning，返回后置为 RunFinished，
// 调度方可通过 Task.State 轮询执行进度。done 回调在状态标记之后、
// 执行位释放之前调用，适合做任务收尾。
//
// # 并发安全
//
// Submit/Close/Active 可任意并发调用。Close 拒绝后续提交并等待
// 在途任务全部返回；CloseWithContext 在等待时响应 ctx 取消。
//
// # 架构定位
//
// Tier: Core Layer Level 5
//
// 依赖关系：
//   - 依赖：pkg/types, pkg/interfaces, config, x/sync/semaphore
//   - 被依赖：session, 根门面
package workers
