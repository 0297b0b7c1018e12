// Package types 定义 go-streamtask 的基础类型
//
// 这是整个系统的最底层包，不依赖任何其他 streamtask 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
// 基础类型:
//   - ids.go    - SessionID, StreamID 流标识
//   - enums.go  - RunState, BlockingPolicy, ReadMode, Direction
//
// # 标识模型
//
// 一条共享传输连接对应一个 SessionID；会话内的每个逻辑流对应一个
// StreamID。两者在任务创建时一次性设定，之后不可变。
package types
