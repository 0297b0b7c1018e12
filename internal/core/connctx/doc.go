// Package connctx 提供合成连接上下文
//
// connctx 模块为处理引擎虚构出一条"私有网络连接"：它满足 net.Conn
// 的全部契约（字节流、地址、关闭），但背后没有任何真实套接字。
// 字节经由安装在连接上的管道阶段流向多路复用器的每流队列：
//   - Read 委托给已安装的输入阶段（MUX_TO_CONN 方向）
//   - Write 委托给已安装的输出阶段（CONN_TO_MUX 方向）
//   - 地址来自按需装配的合成端点，不与任何外部对端连接
//
// # 认领
//
// 连接创建后处于未认领状态，拒绝所有 I/O。管道注册表在安装两个
// 桥接阶段后调用 Claim 独占接管连接，此后默认的网络处理不再参与。
// 重复认领返回 ErrConnClaimed。
//
// # 快速开始
//
//	c, err := connctx.New(cfg, a, sessionID, streamID)
//	if err != nil {
//	    return err
//	}
//
//	// 管道注册表安装阶段并认领
//	_ = c.InstallInput(pipeline.StageMuxToConn, in)
//	_ = c.InstallOutput(pipeline.StageConnToMux, out)
//	_ = c.Claim()
//
//	// 处理引擎把它当作普通连接使用
//	buf := make([]byte, 4096)
//	n, err := c.Read(buf)
//	_, err = c.Write(response)
//
// # 合成端点
//
// 执行期由任务装配端点并绑定到连接，引擎经 LocalAddr/RemoteAddr
// 读到的地址即来自端点。端点占用少量竞技场配额，竞技场销毁后无法
// 再装配新端点。
//
// # 生命周期
//
// 连接的存续期与所属任务的竞技场一致：竞技场销毁时连接自动关闭，
// 之后的 I/O 返回 ErrConnClosed。Close 幂等。
//
// # 并发安全
//
// 阶段安装与认领由互斥锁保护；Read/Write 的并发语义由底层管道
// 阶段保证（每方向内部串行）。
//
// # 架构定位
//
// Tier: Core Layer Level 2
//
// 依赖关系：
//   - 依赖：pkg/types, pkg/interfaces, config, arena
//   - 被依赖：pipeline, task
package connctx
