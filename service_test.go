package streamtask

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/libp2p/go-yamux/v4"
)

// echoEngine 读取全部输入并原样写回
func echoEngine() Engine {
	return EngineFunc(func(ctx context.Context, conn ConnContext) error {
		buf := make([]byte, 4096)
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
	})
}

// newStartedService 创建并启动回显服务
func newStartedService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	svc, err := New(append([]Option{WithEngine(echoEngine())}, opts...)...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

// dialService 把管道连接的一端交给服务，另一端建立 yamux 客户端
func dialService(t *testing.T, svc *Service) (SessionID, *yamux.Session) {
	t.Helper()
	serverConn, clientConn := net.Pipe()

	id, err := svc.ServeConn(serverConn)
	if err != nil {
		t.Fatalf("ServeConn() failed: %v", err)
	}

	ycfg := yamux.DefaultConfig()
	ycfg.LogOutput = io.Discard
	client, err := yamux.Client(clientConn, ycfg, nil)
	if err != nil {
		t.Fatalf("yamux.Client() failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return id, client
}

func TestService_NewRequiresEngine(t *testing.T) {
	if _, err := New(); !errors.Is(err, ErrNilEngine) {
		t.Fatalf("New() without engine error = %v, want %v", err, ErrNilEngine)
	}
}

func TestService_OptionValidation(t *testing.T) {
	if _, err := New(WithEngine(echoEngine()), WithWorkerPoolSize(0)); err == nil {
		t.Error("New() accepted zero pool size")
	}
	if _, err := New(WithEngine(echoEngine()), WithArenaLimit(-1)); err == nil {
		t.Error("New() accepted negative arena limit")
	}
	if _, err := New(WithEngine(nil)); !errors.Is(err, ErrNilEngine) {
		t.Error("New() accepted nil engine option")
	}
	if _, err := New(WithEngine(echoEngine()), WithConfig(nil)); err == nil {
		t.Error("New() accepted nil config")
	}
}

func TestService_Lifecycle(t *testing.T) {
	svc, err := New(WithEngine(echoEngine()))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if got := svc.State(); got != StateIdle {
		t.Errorf("State() = %v, want %v", got, StateIdle)
	}

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if got := svc.State(); got != StateRunning {
		t.Errorf("State() = %v, want %v", got, StateRunning)
	}
	if err := svc.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want %v", err, ErrAlreadyStarted)
	}

	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if got := svc.State(); got != StateStopped {
		t.Errorf("State() = %v, want %v", got, StateStopped)
	}

	// 停止后可以重新启动
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("restart failed: %v", err)
	}

	if err := svc.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("second Close() failed: %v", err)
	}
	if err := svc.Start(context.Background()); !errors.Is(err, ErrServiceClosed) {
		t.Errorf("Start() after close error = %v, want %v", err, ErrServiceClosed)
	}
}

func TestService_ServeConnBeforeStart(t *testing.T) {
	svc, err := New(WithEngine(echoEngine()))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer svc.Close()

	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	if _, err := svc.ServeConn(serverConn); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("ServeConn() error = %v, want %v", err, ErrNotStarted)
	}
}

func TestService_EchoRoundTrip(t *testing.T) {
	svc := newStartedService(t)
	id, client := dialService(t, svc)

	st, err := client.OpenStream(context.Background())
	if err != nil {
		t.Fatalf("OpenStream() failed: %v", err)
	}
	req := []byte("GET / HTTP/1.1\r\n\r\n")
	if _, err := st.Write(req); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if err := st.CloseWrite(); err != nil {
		t.Fatalf("CloseWrite() failed: %v", err)
	}
	got, err := io.ReadAll(st)
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if string(got) != string(req) {
		t.Errorf("echoed = %q, want %q", got, req)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := svc.SessionStats(id)
		if snap.Created == 1 && snap.Completed == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	snap := svc.SessionStats(id)
	if snap.Created != 1 || snap.Completed != 1 {
		t.Errorf("session stats = %+v, want Created=1 Completed=1", snap)
	}
	if total := svc.Stats(); total.BytesIn == 0 || total.BytesOut == 0 {
		t.Errorf("global stats = %+v, want nonzero byte counters", total)
	}
}

func TestService_SessionTracking(t *testing.T) {
	svc := newStartedService(t)
	id, client := dialService(t, svc)

	if got := svc.ActiveSessions(); got != 1 {
		t.Errorf("ActiveSessions() = %d, want 1", got)
	}

	if err := svc.CloseSession(id); err != nil {
		t.Fatalf("CloseSession() failed: %v", err)
	}
	_ = client.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && svc.ActiveSessions() != 0 {
		time.Sleep(time.Millisecond)
	}
	if got := svc.ActiveSessions(); got != 0 {
		t.Errorf("ActiveSessions() = %d, want 0", got)
	}
	if err := svc.CloseSession(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("CloseSession() error = %v, want %v", err, ErrSessionNotFound)
	}
}

func TestService_ServeListener(t *testing.T) {
	svc := newStartedService(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() failed: %v", err)
	}

	serveDone := make(chan error, 1)
	go func() { serveDone <- svc.ServeListener(ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	ycfg := yamux.DefaultConfig()
	ycfg.LogOutput = io.Discard
	client, err := yamux.Client(conn, ycfg, nil)
	if err != nil {
		t.Fatalf("yamux.Client() failed: %v", err)
	}

	st, err := client.OpenStream(context.Background())
	if err != nil {
		t.Fatalf("OpenStream() failed: %v", err)
	}
	if _, err := st.Write([]byte("over tcp")); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if err := st.CloseWrite(); err != nil {
		t.Fatalf("CloseWrite() failed: %v", err)
	}
	got, err := io.ReadAll(st)
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if string(got) != "over tcp" {
		t.Errorf("echoed = %q, want %q", got, "over tcp")
	}

	_ = client.Close()
	_ = ln.Close()
	select {
	case err := <-serveDone:
		if err != nil {
			t.Fatalf("ServeListener() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ServeListener() did not return after listener close")
	}
}

func TestService_VersionInfo(t *testing.T) {
	if Version == "" {
		t.Fatal("Version is empty")
	}
	if info := VersionInfo(); info == "" {
		t.Fatal("VersionInfo() is empty")
	}
}
