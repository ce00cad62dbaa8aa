package pulse

import (
	"sync"
	"time"
)

// limiterOptions 防抖 / 节流共享选项
type limiterOptions struct {
	clock  Clock
	onDrop func()
}

// LimiterOption 限流器选项
type LimiterOption func(*limiterOptions)

// WithLimiterClock 注入时钟（测试用）
func WithLimiterClock(clock Clock) LimiterOption {
	return func(o *limiterOptions) {
		o.clock = clock
	}
}

// WithDropHook 设置丢弃回调，节流器每丢弃一次调用触发一次
func WithDropHook(fn func()) LimiterOption {
	return func(o *limiterOptions) {
		o.onDrop = fn
	}
}

func newLimiterOptions(opts []LimiterOption) *limiterOptions {
	o := &limiterOptions{
		clock: NewClock(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Debouncer 防抖器
//
// 将一段时间内的突发调用折叠为安静期后的一次尾部执行。
// 每次 Call 都会取消未触发的调度并以最新参数重新计时，
// 任意时刻最多存在一个待执行的调度（最后调用者胜出）。
// 回调无返回值回传，属于即发即弃语义。
type Debouncer[T any] struct {
	mu    sync.Mutex
	delay time.Duration
	clock Clock
	fn    func(T)
	timer Timer
	seq   uint64
}

// NewDebouncer 创建防抖器
// delay 为安静期时长，fn 在安静期结束后以最新参数执行。
func NewDebouncer[T any](delay time.Duration, fn func(T), opts ...LimiterOption) *Debouncer[T] {
	o := newLimiterOptions(opts)
	return &Debouncer[T]{
		delay: delay,
		clock: o.clock,
		fn:    fn,
	}
}

// Call 以最新参数重新调度
// 先前未触发的调度被直接取代，不排队也不报错。
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// 只有仍是当前调度时才执行，避免 Stop 与触发竞争
		if d.seq != seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fn(v)
	})
}

// Cancel 取消未触发的调度
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending 是否存在未触发的调度
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
