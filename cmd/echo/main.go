// Package main 提供流任务回显服务器
//
// 回显服务器在一条 TCP 连接上复用任意数量的逻辑流，
// 每个流由执行器池中的一个任务处理，把收到的数据原样写回。
// 它同时提供客户端模式，用于向回显服务器发起多个并发流并验证往返。
//
// 服务端:
//
//	go run ./cmd/echo -listen 127.0.0.1:7100
//
// 客户端:
//
//	go run ./cmd/echo -dial 127.0.0.1:7100 -send "hello" -streams 4
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/libp2p/go-yamux/v4"

	"github.com/dep2p/go-streamtask"
	"github.com/dep2p/go-streamtask/pkg/lib/log"
)

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════

var (
	// ─────────────────────────────────────────────────────────────────────
	// 服务端参数
	// ─────────────────────────────────────────────────────────────────────
	listenAddr    = flag.String("listen", "127.0.0.1:7100", "服务端监听地址")
	configFile    = flag.String("config", "", "JSON 配置文件路径")
	preset        = flag.String("preset", "", "预设配置 (server/minimal)")
	workers       = flag.Int("workers", 0, "执行器池容量（0 = 使用配置默认值）")
	statsInterval = flag.Duration("stats", 30*time.Second, "统计报告间隔（0 关闭）")

	// ─────────────────────────────────────────────────────────────────────
	// 客户端参数
	// ─────────────────────────────────────────────────────────────────────
	dialAddr = flag.String("dial", "", "客户端模式：要连接的服务器地址")
	sendMsg  = flag.String("send", "ping", "客户端模式：每个流发送的内容")
	streams  = flag.Int("streams", 1, "客户端模式：并发流数量")

	// ─────────────────────────────────────────────────────────────────────
	// 信息显示
	// ─────────────────────────────────────────────────────────────────────
	verbose     = flag.Bool("verbose", false, "输出调试日志")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("❌ 错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(streamtask.VersionInfo())
		return nil
	}

	if *verbose {
		log.SetLevel(log.LevelDebug)
	} else {
		log.SetOutput(io.Discard)
	}

	if *dialAddr != "" {
		return runClient()
	}
	return runServer()
}

// ═══════════════════════════════════════════════════════════════════════════
// 服务端模式
// ═══════════════════════════════════════════════════════════════════════════

func runServer() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 捕获中断信号
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		fmt.Printf("\n收到信号 %v，正在关闭...\n", sig)
		cancel()
	}()

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	svc, err := streamtask.New(opts...)
	if err != nil {
		return fmt.Errorf("创建服务失败: %w", err)
	}
	defer func() { _ = svc.Close() }()

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("启动服务失败: %w", err)
	}

	ln, err := net.Listen("tcp", *listenAddr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", *listenAddr, err)
	}

	printBanner(ln.Addr().String())

	if *statsInterval > 0 {
		go reportStats(ctx, svc)
	}

	serveDone := make(chan error, 1)
	go func() { serveDone <- svc.ServeListener(ln) }()

	select {
	case <-ctx.Done():
	case err := <-serveDone:
		if err != nil {
			return fmt.Errorf("接受连接失败: %w", err)
		}
	}

	_ = ln.Close()
	fmt.Println("\n正在关闭回显服务器...")
	printFinalStats(svc)
	fmt.Println("再见! 👋")
	return nil
}

// buildOptions 根据命令行参数组装服务选项
func buildOptions() ([]streamtask.Option, error) {
	opts := []streamtask.Option{
		streamtask.WithEngineFunc(echo),
	}

	if *configFile != "" {
		data, err := os.ReadFile(*configFile) //nolint:gosec // G304: 用户指定的配置文件路径是预期行为
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		opts = append(opts, streamtask.WithConfigJSON(data))
	}
	if *preset != "" {
		opts = append(opts, streamtask.WithPreset(*preset))
	}
	if *workers > 0 {
		opts = append(opts, streamtask.WithWorkerPoolSize(*workers))
	}
	return opts, nil
}

// echo 把每个逻辑流上收到的数据原样写回
func echo(ctx context.Context, conn streamtask.ConnContext) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if _, werr := conn.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// printBanner 打印服务器信息
func printBanner(addr string) {
	fmt.Println("╔══════════════════════════════════════════════════════╗")
	fmt.Println("║            StreamTask Echo Server                    ║")
	fmt.Println("╠══════════════════════════════════════════════════════╣")
	fmt.Printf("║ 版本: %s\n", streamtask.Version)
	fmt.Printf("║ 监听地址: %s\n", addr)
	fmt.Println("╚══════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("回显服务器已启动，等待客户端连接...")
	fmt.Println("按 Ctrl+C 停止服务器")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}

// reportStats 定期报告统计信息
func reportStats(ctx context.Context, svc *streamtask.Service) {
	ticker := time.NewTicker(*statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := svc.Stats()
			fmt.Printf("[Stats] 会话: %d  任务: %d 完成 / %d 中止 / %d 复位  流量: %d B 入 / %d B 出\n",
				svc.ActiveSessions(), stats.Completed, stats.Aborted, stats.Resets,
				stats.BytesIn, stats.BytesOut)
		}
	}
}

// printFinalStats 打印最终统计
func printFinalStats(svc *streamtask.Service) {
	stats := svc.Stats()
	fmt.Printf("共处理 %d 个任务（%d 完成，%d 中止，%d 复位），流量 %d B 入 / %d B 出\n",
		stats.Created, stats.Completed, stats.Aborted, stats.Resets,
		stats.BytesIn, stats.BytesOut)
}

// ═══════════════════════════════════════════════════════════════════════════
// 客户端模式
// ═══════════════════════════════════════════════════════════════════════════

// runClient 对回显服务器发起若干并发流并验证往返
func runClient() error {
	conn, err := net.Dial("tcp", *dialAddr)
	if err != nil {
		return fmt.Errorf("连接 %s 失败: %w", *dialAddr, err)
	}
	defer conn.Close()

	ycfg := yamux.DefaultConfig()
	ycfg.LogOutput = io.Discard
	sess, err := yamux.Client(conn, ycfg, nil)
	if err != nil {
		return fmt.Errorf("建立多路复用会话失败: %w", err)
	}
	defer sess.Close()

	fmt.Printf("已连接 %s，发起 %d 个流...\n", *dialAddr, *streams)
	start := time.Now()

	var wg sync.WaitGroup
	errCh := make(chan error, *streams)
	for i := 0; i < *streams; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := echoOnce(sess, n); err != nil {
				errCh <- fmt.Errorf("流 %d: %w", n, err)
			}
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		return err
	}
	fmt.Printf("✅ %d 个流全部往返成功，耗时 %v\n", *streams, time.Since(start))
	return nil
}

// echoOnce 在一个新流上发送消息并校验回显
func echoOnce(sess *yamux.Session, n int) error {
	st, err := sess.OpenStream(context.Background())
	if err != nil {
		return fmt.Errorf("打开流失败: %w", err)
	}
	defer st.Close()

	msg := fmt.Sprintf("%s #%d", *sendMsg, n)
	if _, err := st.Write([]byte(msg)); err != nil {
		return fmt.Errorf("发送失败: %w", err)
	}
	if err := st.CloseWrite(); err != nil {
		return fmt.Errorf("关闭写端失败: %w", err)
	}

	got, err := io.ReadAll(st)
	if err != nil {
		return fmt.Errorf("读取回显失败: %w", err)
	}
	if string(got) != msg {
		return fmt.Errorf("回显不匹配: got %q, want %q", got, msg)
	}
	fmt.Printf("  流 %d: %q ↔ 往返 %d 字节\n", n, msg, len(got))
	return nil
}
