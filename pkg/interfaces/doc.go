// Package interfaces 定义 go-streamtask 的公共接口
//
// 本包只含接口与契约错误，描述核心与三类协作者之间的边界：
//
// # 多路复用器边界（被消费）
//
//   - multiplexer.go - Multiplexer 每流队列与流重置信令，Ref 共享所有权句柄
//
// # 处理引擎边界（被消费）
//
//   - engine.go - Engine 单次连接处理入口，ConnContext 合成连接上下文，
//     Endpoint 合成端点能力，BufferAllocator 任务域缓冲分配
//   - stage.go  - InputStage / OutputStage 可扩展 I/O 管道阶段，
//     StageHost 阶段安装点
//
// # 调度器边界（被暴露）
//
//   - task.go - Task 流任务的调度器视图
//
// # 契约错误
//
//   - errors.go - ErrStreamAborted, ErrWouldBlock, ErrTaskDestroyed 等
//
// 接口实现位于 internal/，调用方只应依赖本包与 pkg/types。
package interfaces
