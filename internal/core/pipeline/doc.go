// Package pipeline 提供管道阶段的注册与装配
//
// pipeline 模块维护 "阶段名 → 工厂" 的注册表，并负责把一对桥接
// 阶段装配到合成连接上：
//   - MUX_TO_CONN：输入方向，多路复用器队列 → 处理引擎
//   - CONN_TO_MUX：输出方向，处理引擎 → 多路复用器队列
//
// Install 按固定阶段名查找两个工厂、实例化阶段、安装到宿主连接
// 并认领之。任何一步失败都会回收已创建的阶段，宿主保持可丢弃状态。
//
// # 进程默认注册表
//
// 阶段注册是显式的一次性初始化，而非隐式的包级副作用：
//
//	reg, err := pipeline.EnsureDefault(bridge.RegisterStages)
//	if err != nil {
//	    return err
//	}
//
// 首次调用创建注册表并依次执行注册函数；后续调用直接返回既有
// 注册表，注册函数被忽略。ResetDefault 仅供测试使用。
//
// # 快速开始
//
//	reg := pipeline.NewRegistry()
//	_ = reg.RegisterInput(pipeline.StageMuxToConn, newInput)
//	_ = reg.RegisterOutput(pipeline.StageConnToMux, newOutput)
//
//	in, out, err := reg.Install(conn, pipeline.Binding{
//	    SessionID: sessionID,
//	    StreamID:  streamID,
//	    Mplx:      m,
//	    Initial:   firstChunk,
//	})
//
// # 并发安全
//
// 注册表的读写由读写锁保护；Install 可并发调用（各自作用于不同的
// 宿主连接）。
//
// # 架构定位
//
// Tier: Core Layer Level 2
//
// 依赖关系：
//   - 依赖：pkg/types, pkg/interfaces
//   - 被依赖：bridge, task, 根门面
package pipeline
