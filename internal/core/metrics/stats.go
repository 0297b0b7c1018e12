package metrics

// Snapshot 任务指标快照
//
// Snapshot 表示某个时间点的任务统计快照。
// Created/Completed/Aborted 记录任务生命周期事件次数，
// Resets 记录流重置次数，
// BytesIn/BytesOut 记录累计接收/发送字节数，
// RateIn/RateOut 记录每秒接收/发送字节数。
type Snapshot struct {
	Created   int64   // 已创建任务数
	Completed int64   // 已完成任务数
	Aborted   int64   // 已中止任务数
	Resets    int64   // 流重置次数
	BytesIn   int64   // 总入站字节
	BytesOut  int64   // 总出站字节
	RateIn    float64 // 入站速率（字节/秒）
	RateOut   float64 // 出站速率（字节/秒）
}
