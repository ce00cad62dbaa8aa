package pulse

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tokmz/pulse/pkg/logger"
)

// Throttler 节流器
//
// 固定时间窗口内最多执行 limit 次，窗口从重置后的第一次调用开始计时。
// 超出上限的调用被丢弃而非排队（有损限流）：
// 只保证调用速率上界，不保证每次调用都被投递，
// 需要可靠投递的调用方应在上层自行排队。
type Throttler[T any] struct {
	mu          sync.Mutex
	name        string
	limit       int
	interval    time.Duration
	clock       Clock
	log         logger.Logger
	fn          func(T)
	onDrop      func()
	count       int
	windowStart time.Time
	dropped     uint64
}

// NewThrottler 创建节流器
// name 用于标识被节流的操作，出现在丢弃告警日志中。
func NewThrottler[T any](name string, limit int, interval time.Duration, fn func(T), opts ...LimiterOption) *Throttler[T] {
	o := newLimiterOptions(opts)
	return &Throttler[T]{
		name:     name,
		limit:    limit,
		interval: interval,
		clock:    o.clock,
		log:      logger.Nop(),
		fn:       fn,
		onDrop:   o.onDrop,
	}
}

// SetLogger 设置告警日志输出
func (t *Throttler[T]) SetLogger(log logger.Logger) {
	if log == nil {
		return
	}
	t.mu.Lock()
	t.log = log
	t.mu.Unlock()
}

// Call 尝试执行一次调用
// 当前窗口未达上限时同步执行 fn，否则丢弃并记录告警。
func (t *Throttler[T]) Call(v T) {
	t.mu.Lock()

	now := t.clock.Now()
	if t.windowStart.IsZero() || now.Sub(t.windowStart) >= t.interval {
		// 窗口过期，重新计时
		t.windowStart = now
		t.count = 0
	}

	if t.count >= t.limit {
		t.dropped++
		log := t.log
		onDrop := t.onDrop
		t.mu.Unlock()

		log.Warn("throttled call dropped",
			zap.String("operation", t.name),
			zap.Int("limit", t.limit),
			zap.Duration("interval", t.interval),
		)
		if onDrop != nil {
			onDrop()
		}
		return
	}

	t.count++
	t.mu.Unlock()

	t.fn(v)
}

// Dropped 累计丢弃的调用次数
func (t *Throttler[T]) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}

// Reset 重置窗口与计数
func (t *Throttler[T]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.windowStart = time.Time{}
	t.count = 0
}
