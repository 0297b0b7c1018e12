// Package session 提供共享传输连接上的会话驱动
//
// session 模块是传输层与任务核心之间的驱动方：它把一条物理连接
// 交给 yamux 做多路复用，接受对端打开的逻辑流，为每个流装配一个
// 流任务并提交到执行器池，同时在 yamux 流与多路复用器队列之间
// 泵送两个方向的字节。
//
// 每个逻辑流的处理闭环：
//
//	接受流 → 打开队列 → 读首块 → 创建任务 → 提交执行
//	    ├─ 入站泵：yamux 读 → AppendInput（EOF 时 CloseInput）
//	    └─ 出站泵：DequeueOutput → yamux 写（EOF 时 CloseWrite）
//	任务完成 → 关闭输出队列 → 排干出站 → 销毁任务 → 回收流
//
// # 快速开始
//
//	sess, err := session.New(session.Params{
//	    SessionID: 1,
//	    Conn:      conn,
//	    Engine:    engine,
//	    Pool:      pool,
//	    Registry:  registry,
//	    Config:    cfg,
//	})
//	if err != nil {
//	    return err
//	}
//	go sess.Serve()
//	defer sess.Close()
//
// # 错误与收尾
//
//   - 对端半关闭（EOF）→ 关闭入站队列，任务正常跑完
//   - 传输读写失败 → 中止任务，流被整体拆除
//   - 任务侧流重置 → 出站泵观察到重置并向对端发 RST
//   - 会话关闭 → 中止所有在途任务，等全部收尾后释放多路复用器
//
// # 并发安全
//
// Serve 只能调用一次；Close 幂等且可与 Serve 并发。每个逻辑流
// 由独立的 handler goroutine 驱动，流之间互不阻塞。
//
// # 架构定位
//
// Tier: Service Layer
//
// 依赖关系：
//   - 依赖：config, metrics, mplx, pipeline, task, workers, go-yamux, x/sync
//   - 被依赖：根门面
package session
