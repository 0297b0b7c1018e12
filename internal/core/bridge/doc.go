// Package bridge 提供多路复用器与处理引擎之间的桥接阶段
//
// bridge 模块实现两个管道阶段，把多路复用器的每流队列适配成处理
// 引擎期望的顺序字节流：
//   - Input（MUX_TO_CONN）：入站队列 → 引擎读取。支持消费式与
//     试探式读取、阻塞与非阻塞策略、按块上限切分
//   - Output（CONN_TO_MUX）：引擎写出 → 出站队列。按块上限切分
//     长写入，记录"是否已产生输出"供任务的重置判定使用
//
// # 拆除语义
//
// 两个阶段都持有内部拆除上下文。Close 幂等地触发拆除：
//   - 进行中的阻塞读/写被立即唤醒并返回 ErrStreamAborted
//   - 之后的所有调用确定性地返回 ErrStreamAborted
//   - 绝不返回旧数据，绝不再阻塞
//
// 这保证任务中止时，正在引擎内部执行的同步处理循环能够及时观察
// 到取消并退出，而不是悬挂在空队列上。
//
// # 试探式读取
//
// ReadSpeculative 返回数据但不消费：阶段把取出的块保留在本地游标
// 中，下一次读取（无论何种模式）仍然可见。消费只发生在 ReadBytes
// 模式下。引擎用它实现请求边界探测。
//
// # 并发安全
//
// 每个阶段内部以互斥锁串行化数据面调用；Close 可与进行中的读写
// 并发调用。
//
// # 架构定位
//
// Tier: Core Layer Level 3
//
// 依赖关系：
//   - 依赖：pkg/types, pkg/interfaces, config, pipeline
//   - 被依赖：task, 根门面（经 RegisterStages）
package bridge
