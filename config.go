package pulse

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/tokmz/pulse/pkg/config"
	"github.com/tokmz/pulse/pkg/logger"
)

// Config 管道配置
type Config struct {
	// 健康阈值
	MaxReconnectAttempts   int // 重连次数告警阈值（默认 5）
	QueueOverflowThreshold int // 队列积压告警阈值（默认 50）

	// Retry 重试配置，Listen 开启重试且未单独指定时使用
	Retry *RetryConfig

	// LogEvents 是否为出站事件打印诊断日志行
	LogEvents bool

	// Taxonomy 事件注册表（默认预置注册表）
	Taxonomy *Taxonomy

	// Logger 日志实例
	Logger logger.Logger

	// Metrics 监控实例
	Metrics Metrics

	// Tracer 链路追踪（nil 则不追踪）
	Tracer trace.Tracer

	// Clock 时钟（测试用）
	Clock Clock
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		MaxReconnectAttempts:   DefaultMaxReconnectAttempts,
		QueueOverflowThreshold: DefaultQueueOverflowThreshold,
		Retry:                  DefaultRetryConfig(),
		Taxonomy:               DefaultTaxonomy(),
		Metrics:                &NoopMetrics{},
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.MaxReconnectAttempts <= 0 {
		return fmt.Errorf("%w: MaxReconnectAttempts must be positive, got %d",
			ErrInvalidConfig, c.MaxReconnectAttempts)
	}
	if c.QueueOverflowThreshold <= 0 {
		return fmt.Errorf("%w: QueueOverflowThreshold must be positive, got %d",
			ErrInvalidConfig, c.QueueOverflowThreshold)
	}
	if c.Taxonomy == nil {
		return fmt.Errorf("%w: Taxonomy is nil", ErrInvalidConfig)
	}
	return nil
}

// setDefaults 填充未设置的字段
func (c *Config) setDefaults() {
	if c.Retry == nil {
		c.Retry = DefaultRetryConfig()
	}
	if c.Taxonomy == nil {
		c.Taxonomy = DefaultTaxonomy()
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	if c.Metrics == nil {
		c.Metrics = &NoopMetrics{}
	}
	if c.Clock == nil {
		c.Clock = NewClock()
	}
}

// Option 配置选项
type Option func(*Config)

// WithLogger 设置日志实例
func WithLogger(log logger.Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

// WithMetrics 设置监控实例
func WithMetrics(metrics Metrics) Option {
	return func(c *Config) {
		c.Metrics = metrics
	}
}

// WithTracer 设置链路追踪
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = tracer
	}
}

// WithClock 注入时钟（测试用）
func WithClock(clock Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithTaxonomy 设置事件注册表
func WithTaxonomy(taxonomy *Taxonomy) Option {
	return func(c *Config) {
		c.Taxonomy = taxonomy
	}
}

// WithRetryConfig 设置默认重试配置
func WithRetryConfig(retry *RetryConfig) Option {
	return func(c *Config) {
		c.Retry = retry
	}
}

// WithHealthThresholds 设置健康阈值
func WithHealthThresholds(maxReconnectAttempts, queueOverflowThreshold int) Option {
	return func(c *Config) {
		c.MaxReconnectAttempts = maxReconnectAttempts
		c.QueueOverflowThreshold = queueOverflowThreshold
	}
}

// WithEventLogging 为出站事件开启诊断日志行
func WithEventLogging() Option {
	return func(c *Config) {
		c.LogEvents = true
	}
}

// fileConfig 配置文件结构
type fileConfig struct {
	MaxReconnectAttempts   int  `mapstructure:"max_reconnect_attempts"`
	QueueOverflowThreshold int  `mapstructure:"queue_overflow_threshold"`
	LogEvents              bool `mapstructure:"log_events"`

	Retry struct {
		MaxAttempts int           `mapstructure:"max_attempts"`
		BaseDelay   time.Duration `mapstructure:"base_delay"`
	} `mapstructure:"retry"`
}

// LoadConfig 从配置文件加载管道配置
// 文件中未出现的字段保持默认值。
func LoadConfig(path string) (*Config, error) {
	loader := config.New(config.WithFile(path))
	if err := loader.Load(); err != nil {
		return nil, err
	}
	defer loader.Close()

	var fc fileConfig
	if err := loader.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := DefaultConfig()
	if fc.MaxReconnectAttempts > 0 {
		cfg.MaxReconnectAttempts = fc.MaxReconnectAttempts
	}
	if fc.QueueOverflowThreshold > 0 {
		cfg.QueueOverflowThreshold = fc.QueueOverflowThreshold
	}
	cfg.LogEvents = fc.LogEvents
	if fc.Retry.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = fc.Retry.MaxAttempts
	}
	if fc.Retry.BaseDelay > 0 {
		cfg.Retry.BaseDelay = fc.Retry.BaseDelay
	}

	return cfg, nil
}
