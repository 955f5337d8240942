package server

import (
	"sync/atomic"
	"time"
)

// RoomMetrics 房间自加载以来的运行指标
type RoomMetrics struct {
	IntentsAccepted        int64 // 改变了房间状态的消息
	IntentsRejected        int64 // 校验或权限失败
	ProtocolErrors         int64 // 无法解析的消息
	Broadcasts             int64
	SaveFailures           int64
	DisconnectEliminations int64
	GamesStarted           int64
	ApplyCount             int64
	TotalApplyNs           int64 // ApplyCount 次引擎调用的总耗时
}

func (m *RoomMetrics) IncAccepted()       { atomic.AddInt64(&m.IntentsAccepted, 1) }
func (m *RoomMetrics) IncRejected()       { atomic.AddInt64(&m.IntentsRejected, 1) }
func (m *RoomMetrics) IncProtocolError()  { atomic.AddInt64(&m.ProtocolErrors, 1) }
func (m *RoomMetrics) IncBroadcast()      { atomic.AddInt64(&m.Broadcasts, 1) }
func (m *RoomMetrics) IncSaveFailure()    { atomic.AddInt64(&m.SaveFailures, 1) }
func (m *RoomMetrics) IncDisconnectElim() { atomic.AddInt64(&m.DisconnectEliminations, 1) }
func (m *RoomMetrics) IncGamesStarted()   { atomic.AddInt64(&m.GamesStarted, 1) }
func (m *RoomMetrics) AddApply(d time.Duration) {
	atomic.AddInt64(&m.ApplyCount, 1)
	atomic.AddInt64(&m.TotalApplyNs, d.Nanoseconds())
}

// Snapshot 返回只读副本用于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	applies := atomic.LoadInt64(&m.ApplyCount)
	total := atomic.LoadInt64(&m.TotalApplyNs)
	var avgMs float64
	if applies > 0 {
		avgMs = float64(total) / float64(applies) / 1e6
	}
	return map[string]any{
		"intents_accepted":        atomic.LoadInt64(&m.IntentsAccepted),
		"intents_rejected":        atomic.LoadInt64(&m.IntentsRejected),
		"protocol_errors":         atomic.LoadInt64(&m.ProtocolErrors),
		"broadcasts":              atomic.LoadInt64(&m.Broadcasts),
		"save_failures":           atomic.LoadInt64(&m.SaveFailures),
		"disconnect_eliminations": atomic.LoadInt64(&m.DisconnectEliminations),
		"games_started":           atomic.LoadInt64(&m.GamesStarted),
		"apply_count":             applies,
		"avg_apply_ms":            avgMs,
	}
}
