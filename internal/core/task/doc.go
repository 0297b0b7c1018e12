// Package task 提供流任务的核心生命周期
//
// task 模块是整个系统的执行单元：一个任务代表一个逻辑流的处理，
// 它把多路复用器的每流队列、合成连接上下文与一对桥接阶段装配成
// 处理引擎可以当作"普通连接"驱动的整体。
//
// # 生命周期
//
//	创建 Create → 执行 Run →（可选中止 Abort）→ 销毁 Destroy
//
//   - Create：获取多路复用器句柄、建立任务竞技场、预留首块输入的
//     记账、创建合成连接并装配管道阶段。任何一步失败都会向多路
//     复用器发出恰好一次流重置、释放句柄并销毁竞技场——失败的
//     创建不泄漏任何资源。
//   - Run：装配合成端点绑定到连接，调用处理引擎恰好一次。引擎
//     返回后若输出阶段从未写出数据，任务发出一次流重置，避免
//     逻辑流永久悬挂。引擎自身的错误被记录并吞掉（响应可能已经
//     部分写出，此时重置由无输出判定决定），端点装配失败才作为
//     错误返回。
//   - Abort：置中止标志并拆除两个桥接阶段。可与进行中的 Run 并发
//     调用：阻塞在队列上的引擎读写会被唤醒并观察到 ErrStreamAborted。
//   - Destroy：拆除残余阶段、释放多路复用器句柄、整体销毁竞技场。
//     重复销毁返回 ErrTaskDestroyed。
//
// # 竞技场策略
//
// 每个任务总是建立全新的竞技场，不与上游的流状态共享内存域。
// 共享会把任务的生命周期与流对象纠缠在一起，代价是每个任务多一次
// 竞技场建立。
// TODO: 评估高频短任务场景下按会话复用竞技场的收益。
//
// # 快速开始
//
//	t, err := task.Create(task.CreateParams{
//	    SessionID: sessionID,
//	    StreamID:  streamID,
//	    Mplx:      m,
//	    Registry:  reg,
//	    Initial:   firstChunk,
//	})
//	if err != nil {
//	    return err // 流已被重置
//	}
//
//	// 执行器在工作协程中驱动
//	t.SetState(types.RunRunning)
//	_ = t.Run(ctx, engine)
//	t.SetState(types.RunFinished)
//
//	// 调度器收尾
//	_ = t.Destroy()
//
// # 并发安全
//
//   - SessionID/StreamID/LogID 创建后不变，可任意并发读取
//   - State/SetState/IsRunning 原子访问，执行线程写、调度线程读
//   - Abort 可与 Run 并发；Destroy 必须在 Run 返回后串行调用
//
// # 架构定位
//
// Tier: Core Layer Level 4
//
// 依赖关系：
//   - 依赖：pkg/types, pkg/interfaces, config, arena, connctx, pipeline
//   - 被依赖：workers, session, 根门面
package task
