// Package streamtask 把共享传输连接上的逻辑流变成独立的连接处理任务
//
// 一条物理连接上往往复用着许多逻辑请求/响应流。streamtask 为每个
// 逻辑流装配一个流任务：任务持有一个合成连接上下文，把多路复用器
// 的每流字节队列桥接成 net.Conn 语义，处理引擎拿到它之后可以像
// 处理一条普通连接那样读请求、写响应，完全感知不到自己运行在
// 共享连接的一个分片上。
//
// # 架构层次
//
//	API Layer:     Service（门面，用户直接交互）
//	Service Layer: Session（会话驱动，每条传输连接一个）
//	Core Layer:    Task / Mplx / ConnCtx / Bridge / Workers
//	Foundation:    Arena / Metrics / Pipeline / Config
//
// 数据通路：
//
//	对端 ──yamux──> Session ──队列──> Task ──合成连接──> Engine
//	对端 <──yamux── Session <──队列── Task <──合成连接── Engine
//
// # 快速开始
//
//	engine := streamtask.EngineFunc(func(ctx context.Context, conn streamtask.ConnContext) error {
//	    req, err := io.ReadAll(conn) // 读完整个请求
//	    if err != nil {
//	        return err
//	    }
//	    _, err = conn.Write(process(req)) // 写回响应
//	    return err
//	})
//
//	svc, err := streamtask.New(
//	    streamtask.WithEngine(engine),
//	    streamtask.WithWorkerPoolSize(32),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := svc.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	ln, _ := net.Listen("tcp", ":9000")
//	_ = svc.ServeListener(ln)
//
// 客户端用 yamux 在同一条连接上打开任意数量的逻辑流，每个流都由
// 独立的任务处理，互不阻塞。
//
// # 生命周期
//
// 每个逻辑流的任务经历 创建 → 执行 → （可选中止）→ 销毁：
//
//   - 创建：建立任务专属的内存竞技场，装配合成连接与管道阶段
//   - 执行：在执行器池的工作协程中调用引擎恰好一次
//   - 中止：会话关闭或传输失败时拆除适配器，阻塞的引擎立即返回
//   - 销毁：整体回收竞技场，失败的流以对端可见的重置收场
//
// 引擎从不产生输出就返回时，任务自动向对端发出流重置，逻辑流
// 不会永久悬挂。
//
// # 并发模型
//
// 同一会话的不同流任务并行执行，执行器池限制全局并发度。
// 每个任务的引擎在单个工作协程中同步运行；任务的标识访问器
// 可以跨线程读取，中止可以从任意线程发起。
package streamtask
