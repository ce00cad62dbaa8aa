package socket

import (
	"time"

	"github.com/tokmz/pulse/pkg/logger"
)

// Config 连接配置
type Config struct {
	// SendQueueSize 发送队列大小
	SendQueueSize int
	// WriteWait 写超时时间
	WriteWait time.Duration
	// PongWait 心跳超时时间
	PongWait time.Duration
	// PingInterval 心跳发送间隔
	PingInterval time.Duration
	// MaxMessageSize 最大消息大小（字节）
	MaxMessageSize int64
	// MaxReconnectAttempts 最大重连次数，超过后进入 error 状态
	MaxReconnectAttempts int
	// ReconnectBaseDelay 重连基础延迟，按次数指数增长
	ReconnectBaseDelay time.Duration
	// ReconnectMaxDelay 重连延迟上限
	ReconnectMaxDelay time.Duration
	// HandshakeTimeout 握手超时时间
	HandshakeTimeout time.Duration
	// Logger 日志记录器
	Logger logger.Logger
}

// DefaultConfig 返回默认连接配置
func DefaultConfig() *Config {
	return &Config{
		SendQueueSize:        256,
		WriteWait:            10 * time.Second,
		PongWait:             60 * time.Second,
		PingInterval:         54 * time.Second,
		MaxMessageSize:       512 * 1024,
		MaxReconnectAttempts: 5,
		ReconnectBaseDelay:   time.Second,
		ReconnectMaxDelay:    30 * time.Second,
		HandshakeTimeout:     10 * time.Second,
	}
}

func (c *Config) setDefaults() {
	def := DefaultConfig()
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = def.SendQueueSize
	}
	if c.WriteWait <= 0 {
		c.WriteWait = def.WriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = def.PongWait
	}
	if c.PingInterval <= 0 {
		c.PingInterval = def.PingInterval
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = def.MaxMessageSize
	}
	if c.MaxReconnectAttempts <= 0 {
		c.MaxReconnectAttempts = def.MaxReconnectAttempts
	}
	if c.ReconnectBaseDelay <= 0 {
		c.ReconnectBaseDelay = def.ReconnectBaseDelay
	}
	if c.ReconnectMaxDelay <= 0 {
		c.ReconnectMaxDelay = def.ReconnectMaxDelay
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = def.HandshakeTimeout
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
}

// Option 连接选项函数
type Option func(*Config)

// WithLogger 设置日志记录器
func WithLogger(log logger.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

// WithSendQueueSize 设置发送队列大小
func WithSendQueueSize(n int) Option {
	return func(c *Config) {
		c.SendQueueSize = n
	}
}

// WithReconnect 设置重连策略
func WithReconnect(maxAttempts int, baseDelay, maxDelay time.Duration) Option {
	return func(c *Config) {
		c.MaxReconnectAttempts = maxAttempts
		c.ReconnectBaseDelay = baseDelay
		c.ReconnectMaxDelay = maxDelay
	}
}

// WithHeartbeat 设置心跳参数
func WithHeartbeat(pingInterval, pongWait time.Duration) Option {
	return func(c *Config) {
		c.PingInterval = pingInterval
		c.PongWait = pongWait
	}
}
