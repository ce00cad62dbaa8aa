package pulse

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handler 用户事件处理器
type Handler func(data any) error

// ListenOptions 监听选项
type ListenOptions struct {
	// Validate 投递前校验负载，失败则丢弃事件（默认开启）
	Validate bool

	// Sanitize 投递前净化负载（默认开启）
	Sanitize bool

	// LogEvents 投递前打印诊断日志行（默认关闭）
	LogEvents bool

	// RetryOnError 处理器失败时按退避重试（默认关闭）
	RetryOnError bool

	// Retry 重试配置，nil 时使用管道默认值
	Retry *RetryConfig
}

// defaultListenOptions 返回默认监听选项
func defaultListenOptions() *ListenOptions {
	return &ListenOptions{
		Validate: true,
		Sanitize: true,
	}
}

// ListenOption 监听选项函数
type ListenOption func(*ListenOptions)

// WithoutValidation 关闭投递前校验
func WithoutValidation() ListenOption {
	return func(o *ListenOptions) {
		o.Validate = false
	}
}

// WithoutSanitization 关闭投递前净化
func WithoutSanitization() ListenOption {
	return func(o *ListenOptions) {
		o.Sanitize = false
	}
}

// WithEventLog 打印入站事件诊断日志行
func WithEventLog() ListenOption {
	return func(o *ListenOptions) {
		o.LogEvents = true
	}
}

// WithRetry 处理器失败时按退避重试
// cfg 为 nil 时使用管道默认重试配置。
func WithRetry(cfg *RetryConfig) ListenOption {
	return func(o *ListenOptions) {
		o.RetryOnError = true
		o.Retry = cfg
	}
}

// Subscription 订阅句柄
// Dispose 从传输层注销内部包装的监听器，恰好执行一次，
// 重复调用是安全的空操作。
type Subscription struct {
	event     string
	id        string
	transport Transport
	once      sync.Once
}

// Event 返回订阅的事件名
func (s *Subscription) Event() string {
	return s.event
}

// Dispose 注销订阅（幂等）
func (s *Subscription) Dispose() {
	s.once.Do(func() {
		s.transport.Off(s.event, s.id)
	})
}

// Listen 注册受保护的事件监听器
//
// 入站事件按选项依次经过校验（失败即丢弃，处理器不被调用）、
// 净化、可选诊断日志，最后交给 handler（可选地在重试器内）。
// 处理器抛出的任何错误（含重试耗尽与 panic）都在此被捕获记录，
// 绝不回抛到传输层的分发循环。
func (p *Pipeline) Listen(event string, handler Handler, opts ...ListenOption) (*Subscription, error) {
	if event == "" {
		return nil, ErrEventNameEmpty
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	o := defaultListenOptions()
	for _, opt := range opts {
		opt(o)
	}

	retryCfg := o.Retry
	if retryCfg == nil {
		retryCfg = p.config.Retry
	}
	category := p.config.Taxonomy.Category(event)

	raw := func(data any) {
		p.dispatch(event, category, data, o, retryCfg, handler)
	}

	id := p.transport.On(event, raw)
	return &Subscription{
		event:     event,
		id:        id,
		transport: p.transport,
	}, nil
}

// dispatch 单次入站事件投递
func (p *Pipeline) dispatch(event, category string, data any, o *ListenOptions, retryCfg *RetryConfig, handler Handler) {
	// 处理器 panic 不得破坏传输层的分发循环
	defer func() {
		if r := recover(); r != nil {
			p.metrics.IncHandlerErrors(event)
			p.log.Error("event handler panicked",
				zap.String("event", event),
				zap.Any("panic", r),
			)
		}
	}()

	if o.Validate {
		res := p.validator.Validate(event, data)
		if !res.Valid {
			p.metrics.IncValidationFailures(event)
			p.metrics.IncDropped(event, DropReasonValidation)
			p.log.Warn("inbound event dropped",
				zap.String("event", event),
				zap.Strings("errors", res.Errors),
			)
			return
		}
	}

	if o.Sanitize {
		data = p.sanitizer.Sanitize(event, data)
	}

	if o.LogEvents {
		p.log.Info(FormatEventLine(p.clock.Now(), DirectionIn, category, event, data))
	}

	err := traceOp(p.config.Tracer, "pulse.dispatch", event, DirectionIn, func() error {
		if !o.RetryOnError {
			return handler(data)
		}

		cfg := *retryCfg
		attempt := 0
		return RetryFunc(context.Background(), &cfg, func(ctx context.Context) error {
			attempt++
			if attempt > 1 {
				p.metrics.IncRetries(event)
			}
			return handler(data)
		})
	})
	if err != nil {
		p.metrics.IncHandlerErrors(event)
		p.log.Error("event handler failed",
			zap.String("event", event),
			zap.Error(err),
		)
		return
	}

	p.metrics.IncDelivered(event)
}
