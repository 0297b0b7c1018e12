// Package mplx 提供会话内的流多路复用器
//
// mplx 模块持有一个会话中所有逻辑流的入站/出站字节队列，是会话
// 驱动方（传输泵）与任务核心（管道适配器）之间的交汇点：
//   - 驱动侧：OpenStream/AppendInput/CloseInput 灌入入站数据，
//     DequeueOutput/CloseOutput 抽取出站数据，CloseStream 回收流
//   - 任务侧：DequeueInput/EnqueueOutput 构成处理引擎的数据面，
//     ResetStream 报告"流无法产生结果"
//   - 所有权：Retain/Release 引用计数保证多路复用器存活到最后一个
//     持有者释放为止，Done 通道在计数归零时关闭
//
// # 快速开始
//
//	m := mplx.New(sessionID, &cfg.Mplx, reporter)
//
//	// 驱动侧: 打开流并灌入数据
//	_ = m.OpenStream(13)
//	_ = m.AppendInput(ctx, 13, []byte("request"))
//	_ = m.CloseInput(13)
//
//	// 任务侧: 消费输入, 产出输出
//	chunk, eos, _ := m.DequeueInput(ctx, 13, types.PolicyBlocking, 4096)
//	_ = m.EnqueueOutput(ctx, 13, []byte("response"))
//
//	// 驱动侧: 抽取输出
//	out, _ := m.DequeueOutput(ctx, 13)
//
// # 数据所有权
//
// 入队方向（AppendInput/EnqueueOutput）复制调用方的数据，调用方可
// 立即复用缓冲区；出队方向（DequeueInput/DequeueOutput）把切片的
// 所有权转移给调用方。队列内部的字节不与任何任务竞技场共享。
//
// # 背压
//
// 每流单方向的排队字节数受 MaxStreamBufferBytes 约束，达到上限后
// 入队操作阻塞，直到消费方腾出空间或 ctx 取消。上限为 0 时不限制。
//
// # 流重置
//
// ResetStream 为流记录首个重置原因，后续调用被忽略。重置后该流的
// 所有入队/出队操作返回 ErrStreamReset（与原因错误联结），等待中的
// 阻塞操作会被立即唤醒。
//
// # 并发安全
//
// 所有方法都是并发安全的：
//   - 流表由互斥锁保护
//   - 每流一把互斥锁覆盖两个方向的队列
//   - 阻塞等待使用广播通道唤醒，支持 ctx 取消
//   - 引用计数使用原子操作
//
// # 架构定位
//
// Tier: Core Layer Level 2
//
// 依赖关系：
//   - 依赖：pkg/types, pkg/interfaces, config, metrics, eapache/queue
//   - 被依赖：bridge, task, session
package mplx
