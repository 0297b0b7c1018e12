package pipeline

import (
	"fmt"
	"sync"

	pkgif "github.com/dep2p/go-streamtask/pkg/interfaces"
	"github.com/dep2p/go-streamtask/pkg/lib/log"
	"github.com/dep2p/go-streamtask/pkg/types"
)

var logger = log.Logger("core/pipeline")

// 桥接阶段的固定名字
const (
	// StageMuxToConn 输入方向：多路复用器 → 处理引擎
	StageMuxToConn = "MUX_TO_CONN"

	// StageConnToMux 输出方向：处理引擎 → 多路复用器
	StageConnToMux = "CONN_TO_MUX"
)

// Binding 阶段实例化所需的每流绑定
//
// Initial 为任务创建时已就绪的首块输入数据（可为 nil），
// InitialEOS 表示输入在首块之后即告结束。块大小为 0 时由阶段
// 使用各自的默认值。
type Binding struct {
	SessionID types.SessionID
	StreamID  types.StreamID
	Mplx      pkgif.Multiplexer

	Initial    []byte
	InitialEOS bool

	ReadChunkSize  int
	WriteChunkSize int
}

// InputFactory 输入阶段工厂
type InputFactory func(Binding) pkgif.InputStage

// OutputFactory 输出阶段工厂
type OutputFactory func(Binding) pkgif.OutputStage

// ============================================================================
// Registry - 阶段注册表
// ============================================================================

// Registry 管道阶段注册表
type Registry struct {
	mu      sync.RWMutex
	inputs  map[string]InputFactory
	outputs map[string]OutputFactory
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		inputs:  make(map[string]InputFactory),
		outputs: make(map[string]OutputFactory),
	}
}

// RegisterInput 注册命名输入阶段工厂
func (r *Registry) RegisterInput(name string, f InputFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.inputs[name]; ok {
		return fmt.Errorf("register input %s: %w", name, ErrDuplicateStage)
	}
	r.inputs[name] = f
	return nil
}

// RegisterOutput 注册命名输出阶段工厂
func (r *Registry) RegisterOutput(name string, f OutputFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.outputs[name]; ok {
		return fmt.Errorf("register output %s: %w", name, ErrDuplicateStage)
	}
	r.outputs[name] = f
	return nil
}

// LookupInput 查找输入阶段工厂
func (r *Registry) LookupInput(name string) (InputFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.inputs[name]
	return f, ok
}

// LookupOutput 查找输出阶段工厂
func (r *Registry) LookupOutput(name string) (OutputFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.outputs[name]
	return f, ok
}

// Install 在宿主连接上装配一对桥接阶段并认领连接
//
// 任何一步失败都会关闭已实例化的阶段后返回错误，宿主连接不会
// 处于半装配状态被使用（认领失败的连接拒绝 I/O）。
func (r *Registry) Install(host pkgif.StageHost, b Binding) (pkgif.InputStage, pkgif.OutputStage, error) {
	if b.Mplx == nil {
		return nil, nil, ErrNilMultiplexer
	}

	inF, ok := r.LookupInput(StageMuxToConn)
	if !ok {
		return nil, nil, fmt.Errorf("install %s: %w", StageMuxToConn, ErrStageNotFound)
	}
	outF, ok := r.LookupOutput(StageConnToMux)
	if !ok {
		return nil, nil, fmt.Errorf("install %s: %w", StageConnToMux, ErrStageNotFound)
	}

	in := inF(b)
	out := outF(b)

	if err := host.InstallInput(StageMuxToConn, in); err != nil {
		_ = in.Close()
		_ = out.Close()
		return nil, nil, fmt.Errorf("install %s: %w", StageMuxToConn, err)
	}
	if err := host.InstallOutput(StageConnToMux, out); err != nil {
		_ = in.Close()
		_ = out.Close()
		return nil, nil, fmt.Errorf("install %s: %w", StageConnToMux, err)
	}
	if err := host.Claim(); err != nil {
		_ = in.Close()
		_ = out.Close()
		return nil, nil, fmt.Errorf("claim conn: %w", err)
	}

	logger.Debug("管道阶段已装配", "stream", types.LogID(b.SessionID, b.StreamID))
	return in, out, nil
}
