package pulse

import "fmt"

// HealthStatus 连接健康状态
type HealthStatus string

const (
	// StatusHealthy 健康
	StatusHealthy HealthStatus = "healthy"
	// StatusDisconnected 未连接
	StatusDisconnected HealthStatus = "disconnected"
	// StatusError 连接错误
	StatusError HealthStatus = "error"
	// StatusConnecting 连接中
	StatusConnecting HealthStatus = "connecting"
	// StatusMaxReconnectAttempts 重连次数达到上限
	StatusMaxReconnectAttempts HealthStatus = "max_reconnect_attempts"
	// StatusQueueOverflow 事件队列积压
	StatusQueueOverflow HealthStatus = "queue_overflow"
	// StatusNoSocketID 缺少连接标识
	StatusNoSocketID HealthStatus = "no_socket_id"
	// StatusNoSocket 无传输层实例
	StatusNoSocket HealthStatus = "no_socket"
)

// 健康阈值默认值
const (
	// DefaultMaxReconnectAttempts 重连次数告警阈值
	DefaultMaxReconnectAttempts = 5
	// DefaultQueueOverflowThreshold 队列积压告警阈值
	DefaultQueueOverflowThreshold = 50
)

// ConnectionHealth 连接健康快照
// 每次检查重新推导，不做缓存。
type ConnectionHealth struct {
	// Healthy 无任何问题时为 true
	Healthy bool `json:"healthy"`

	// Status 最终状态标签
	Status HealthStatus `json:"status"`

	// Issues 检查中收集到的问题描述，按检查顺序排列
	Issues []string `json:"issues,omitempty"`

	// ConnectionState 传输层上报的连接状态
	ConnectionState ConnectionState `json:"connection_state,omitempty"`

	// ReconnectAttempts 已尝试的重连次数
	ReconnectAttempts int `json:"reconnect_attempts"`

	// QueueLength 待发送事件队列长度
	QueueLength int `json:"event_queue_length"`

	// SocketID 连接标识
	SocketID string `json:"socket_id,omitempty"`
}

// HealthMonitor 连接健康监视器
// 只读取传输层可观测状态，不参与事件收发路径。
type HealthMonitor struct {
	maxReconnectAttempts   int
	queueOverflowThreshold int
}

// NewHealthMonitor 创建健康监视器
// 阈值传 0 时使用默认值。
func NewHealthMonitor(maxReconnectAttempts, queueOverflowThreshold int) *HealthMonitor {
	if maxReconnectAttempts <= 0 {
		maxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if queueOverflowThreshold <= 0 {
		queueOverflowThreshold = DefaultQueueOverflowThreshold
	}
	return &HealthMonitor{
		maxReconnectAttempts:   maxReconnectAttempts,
		queueOverflowThreshold: queueOverflowThreshold,
	}
}

// Check 推导连接健康快照
//
// 状态按固定顺序推导，后续更严重的状况覆盖先前的标签，
// 每个状况独立向 Issues 追加描述。
func (m *HealthMonitor) Check(t Transport) *ConnectionHealth {
	if t == nil {
		return &ConnectionHealth{
			Healthy: false,
			Status:  StatusNoSocket,
			Issues:  []string{"No socket instance"},
		}
	}

	health := &ConnectionHealth{
		Status:            StatusHealthy,
		ConnectionState:   t.ConnectionState(),
		ReconnectAttempts: t.ReconnectAttempts(),
		QueueLength:       t.QueueLength(),
		SocketID:          t.SocketID(),
	}

	if !t.IsConnected() {
		health.Issues = append(health.Issues, "Socket not connected")
		health.Status = StatusDisconnected
	}

	switch health.ConnectionState {
	case StateError:
		health.Status = StatusError
	case StateConnecting:
		health.Status = StatusConnecting
	}

	if health.ReconnectAttempts > 0 {
		health.Issues = append(health.Issues, fmt.Sprintf("Reconnect attempts: %d", health.ReconnectAttempts))
		if health.ReconnectAttempts >= m.maxReconnectAttempts {
			health.Status = StatusMaxReconnectAttempts
		}
	}

	if health.QueueLength > 0 {
		health.Issues = append(health.Issues, fmt.Sprintf("Event queue length: %d", health.QueueLength))
		if health.QueueLength > m.queueOverflowThreshold {
			health.Status = StatusQueueOverflow
		}
	}

	if health.SocketID == "" {
		health.Issues = append(health.Issues, "No socket ID")
		health.Status = StatusNoSocketID
	}

	health.Healthy = len(health.Issues) == 0
	return health
}
