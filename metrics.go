package pulse

// DropReason 事件被丢弃的原因
type DropReason string

const (
	// DropReasonValidation 校验失败
	DropReasonValidation DropReason = "validation"
	// DropReasonThrottle 节流超限
	DropReasonThrottle DropReason = "throttle"
)

// Metrics 监控接口
type Metrics interface {
	// 出站指标
	IncEmitted(event string)

	// 入站指标
	IncDelivered(event string)
	IncDropped(event string, reason DropReason)

	// 错误指标
	IncValidationFailures(event string)
	IncHandlerErrors(event string)
	IncRetries(event string)
}

// NoopMetrics 空实现（默认）
type NoopMetrics struct{}

func (m *NoopMetrics) IncEmitted(event string) {}

func (m *NoopMetrics) IncDelivered(event string) {}

func (m *NoopMetrics) IncDropped(event string, reason DropReason) {}

func (m *NoopMetrics) IncValidationFailures(event string) {}

func (m *NoopMetrics) IncHandlerErrors(event string) {}

func (m *NoopMetrics) IncRetries(event string) {}
