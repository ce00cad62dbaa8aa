package pulse

// ConnectionState 连接状态
type ConnectionState string

const (
	// StateConnected 已连接
	StateConnected ConnectionState = "connected"
	// StateConnecting 连接中
	StateConnecting ConnectionState = "connecting"
	// StateDisconnected 已断开
	StateDisconnected ConnectionState = "disconnected"
	// StateError 连接错误
	StateError ConnectionState = "error"
)

// RawHandler 传输层原始事件处理器
type RawHandler func(data any)

// Transport 传输层协作接口
//
// 管道只读取传输层的可观测状态并调用其订阅 / 发送原语，
// 握手、心跳与重连算法均由传输层自身负责。
// Go 中函数值不可比较，因此 On 返回监听器 ID，Off 按 ID 注销。
type Transport interface {
	// IsConnected 是否已连接
	IsConnected() bool

	// ConnectionState 当前连接状态
	ConnectionState() ConnectionState

	// ReconnectAttempts 已尝试的重连次数
	ReconnectAttempts() int

	// QueueLength 待发送事件队列长度
	QueueLength() int

	// SocketID 连接标识，未分配时返回空串
	SocketID() string

	// On 注册事件监听器，返回监听器 ID
	On(event string, h RawHandler) string

	// Off 按监听器 ID 注销
	Off(event string, id string)

	// Emit 发送事件
	Emit(event string, data any) error
}
