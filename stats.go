package pulse

import (
	"encoding/json"
	"fmt"
	"time"
)

// previewLimit 诊断日志中负载预览的最大长度
const previewLimit = 100

// Direction 事件方向
type Direction string

const (
	// DirectionIn 入站事件
	DirectionIn Direction = "IN"
	// DirectionOut 出站事件
	DirectionOut Direction = "OUT"
)

// Stats 连接统计快照
// 纯读取，不修改传输层状态。
type Stats struct {
	// ConnectionState 连接状态
	ConnectionState ConnectionState `json:"connection_state"`

	// Connected 是否已连接
	Connected bool `json:"connected"`

	// ReconnectAttempts 重连次数
	ReconnectAttempts int `json:"reconnect_attempts"`

	// QueueLength 待发送队列长度
	QueueLength int `json:"event_queue_length"`

	// SocketID 连接标识
	SocketID string `json:"socket_id,omitempty"`

	// Health 内嵌健康快照
	Health *ConnectionHealth `json:"health"`

	// Timestamp 采样时间
	Timestamp time.Time `json:"timestamp"`
}

// Reporter 统计报告器
type Reporter struct {
	monitor *HealthMonitor
	clock   Clock
}

// NewReporter 创建统计报告器
// monitor 为 nil 时使用默认阈值，clock 为 nil 时使用系统时钟。
func NewReporter(monitor *HealthMonitor, clock Clock) *Reporter {
	if monitor == nil {
		monitor = NewHealthMonitor(0, 0)
	}
	if clock == nil {
		clock = NewClock()
	}
	return &Reporter{
		monitor: monitor,
		clock:   clock,
	}
}

// Stats 采集连接统计快照
func (r *Reporter) Stats(t Transport) *Stats {
	stats := &Stats{
		Health:    r.monitor.Check(t),
		Timestamp: r.clock.Now(),
	}
	if t != nil {
		stats.ConnectionState = t.ConnectionState()
		stats.Connected = t.IsConnected()
		stats.ReconnectAttempts = t.ReconnectAttempts()
		stats.QueueLength = t.QueueLength()
		stats.SocketID = t.SocketID()
	}
	return stats
}

// FormatEventLine 格式化诊断日志行
//
// 格式：[<ISO-8601 时间戳>] Socket <IN|OUT> - <分类>/<事件名>: <负载预览>
// 负载预览为 JSON 序列化结果，截断到 100 个字符。
func FormatEventLine(ts time.Time, dir Direction, category, event string, data any) string {
	return fmt.Sprintf("[%s] Socket %s - %s/%s: %s",
		ts.Format(time.RFC3339), dir, category, event, previewPayload(data))
}

// previewPayload 生成负载预览
func previewPayload(data any) string {
	var preview string
	if b, err := json.Marshal(data); err == nil {
		preview = string(b)
	} else {
		preview = fmt.Sprintf("%v", data)
	}

	runes := []rune(preview)
	if len(runes) > previewLimit {
		return string(runes[:previewLimit])
	}
	return preview
}
