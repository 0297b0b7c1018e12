package types

// ============================================================================
//                              RunState - 运行状态
// ============================================================================

// RunState 任务运行状态
//
// 三态标志：未开始 / 运行中 / 已结束。
// 由执行线程写入、调度线程读取，必须通过原子操作访问。
type RunState int32

const (
	// RunNotStarted 任务尚未交给处理引擎
	RunNotStarted RunState = iota
	// RunRunning 任务正在处理引擎中执行
	RunRunning
	// RunFinished 处理引擎已返回（正常或出错）
	RunFinished
)

// String 返回运行状态的字符串表示
func (s RunState) String() string {
	switch s {
	case RunNotStarted:
		return "not-started"
	case RunRunning:
		return "running"
	case RunFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              BlockingPolicy - 阻塞策略
// ============================================================================

// BlockingPolicy 队列读取的阻塞策略
type BlockingPolicy int

const (
	// PolicyBlocking 队列为空时阻塞等待数据
	PolicyBlocking BlockingPolicy = iota
	// PolicyNonBlocking 队列为空时立即返回 would-block
	PolicyNonBlocking
)

// String 返回阻塞策略的字符串表示
func (p BlockingPolicy) String() string {
	switch p {
	case PolicyBlocking:
		return "blocking"
	case PolicyNonBlocking:
		return "nonblocking"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              ReadMode - 读取模式
// ============================================================================

// ReadMode 输入阶段的读取模式
type ReadMode int

const (
	// ReadBytes 消费式读取：返回的数据从流中移除
	ReadBytes ReadMode = iota
	// ReadSpeculative 试探式读取：返回数据但不消费，下次读取仍可见
	ReadSpeculative
)

// String 返回读取模式的字符串表示
func (m ReadMode) String() string {
	switch m {
	case ReadBytes:
		return "bytes"
	case ReadSpeculative:
		return "speculative"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              Direction - 管道方向
// ============================================================================

// Direction 管道阶段的数据方向
type Direction int

const (
	// DirUnknown 未知方向
	DirUnknown Direction = iota
	// DirInput 输入方向：多路复用器 → 处理引擎
	DirInput
	// DirOutput 输出方向：处理引擎 → 多路复用器
	DirOutput
)

// String 返回方向的字符串表示
func (d Direction) String() string {
	switch d {
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	default:
		return "unknown"
	}
}
