package pulse

import (
	"time"

	"go.uber.org/zap"

	"github.com/tokmz/pulse/pkg/logger"
)

// Pipeline 事件管道
//
// 在不可信的线缆负载之上强制执行类型化的事件分类：
// 出站调用依次经过校验、净化、（可选）限流后到达传输层，
// 入站事件经过校验、净化、（可选）重试后到达用户处理器。
// 健康监视与统计报告只读取传输层状态，不在收发路径上。
type Pipeline struct {
	transport Transport
	config    *Config
	validator *Validator
	sanitizer *Sanitizer
	monitor   *HealthMonitor
	reporter  *Reporter
	log       logger.Logger
	metrics   Metrics
	clock     Clock
}

// New 创建事件管道
func New(transport Transport, opts ...Option) (*Pipeline, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return NewFromConfig(transport, cfg)
}

// NewFromConfig 以现成配置创建事件管道
// 配合 LoadConfig 从文件构建配置时使用。
func NewFromConfig(transport Transport, cfg *Config) (*Pipeline, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 重试日志与时钟默认继承管道配置
	if cfg.Retry.Logger == nil {
		cfg.Retry.Logger = cfg.Logger
	}
	if cfg.Retry.Clock == nil {
		cfg.Retry.Clock = cfg.Clock
	}

	monitor := NewHealthMonitor(cfg.MaxReconnectAttempts, cfg.QueueOverflowThreshold)

	return &Pipeline{
		transport: transport,
		config:    cfg,
		validator: NewValidator(cfg.Taxonomy),
		sanitizer: NewSanitizer(),
		monitor:   monitor,
		reporter:  NewReporter(monitor, cfg.Clock),
		log:       cfg.Logger,
		metrics:   cfg.Metrics,
		clock:     cfg.Clock,
	}, nil
}

// Emit 发送出站事件
//
// 负载先校验后净化再交给传输层。校验失败的事件被丢弃并记录
// 日志，不作为错误返回（失败仅通过日志与监控可见）；
// 传输层自身的发送错误则原样返回给调用方。
func (p *Pipeline) Emit(event string, data any) error {
	res := p.validator.Validate(event, data)
	if !res.Valid {
		p.metrics.IncValidationFailures(event)
		p.metrics.IncDropped(event, DropReasonValidation)
		p.log.Warn("outbound event dropped",
			zap.String("event", event),
			zap.Strings("errors", res.Errors),
		)
		return nil
	}

	clean := p.sanitizer.Sanitize(event, data)

	if p.config.LogEvents {
		category := p.config.Taxonomy.Category(event)
		p.log.Info(FormatEventLine(p.clock.Now(), DirectionOut, category, event, clean))
	}

	err := traceOp(p.config.Tracer, "pulse.emit", event, DirectionOut, func() error {
		return p.transport.Emit(event, clean)
	})
	if err != nil {
		return err
	}

	p.metrics.IncEmitted(event)
	return nil
}

// DebouncedEmit 返回防抖的发送函数
// 安静期内的突发调用折叠为最后一次，以其负载发送。
func (p *Pipeline) DebouncedEmit(event string, delay time.Duration) func(data any) {
	d := NewDebouncer(delay, func(data any) {
		_ = p.Emit(event, data)
	}, WithLimiterClock(p.clock))
	return d.Call
}

// ThrottledEmit 返回节流的发送函数
// 每个窗口最多发送 limit 次，超出的调用被丢弃并告警。
func (p *Pipeline) ThrottledEmit(event string, limit int, interval time.Duration) func(data any) {
	t := NewThrottler(event, limit, interval, func(data any) {
		_ = p.Emit(event, data)
	},
		WithLimiterClock(p.clock),
		WithDropHook(func() {
			p.metrics.IncDropped(event, DropReasonThrottle)
		}),
	)
	t.SetLogger(p.log)
	return t.Call
}

// Health 推导当前连接健康快照
func (p *Pipeline) Health() *ConnectionHealth {
	return p.monitor.Check(p.transport)
}

// Stats 采集当前连接统计快照
func (p *Pipeline) Stats() *Stats {
	return p.reporter.Stats(p.transport)
}

// Transport 返回底层传输层
func (p *Pipeline) Transport() Transport {
	return p.transport
}
