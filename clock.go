package pulse

import (
	"context"
	"time"
)

// Clock 时钟抽象
// 防抖、节流和重试的定时行为都通过 Clock 调度，
// 测试中可注入模拟时钟以确定性地推进时间。
type Clock interface {
	// Now 返回当前时间
	Now() time.Time

	// AfterFunc 在 d 之后执行 fn，返回可停止的定时器
	AfterFunc(d time.Duration, fn func()) Timer

	// Sleep 阻塞等待 d，context 取消时提前返回其错误
	Sleep(ctx context.Context, d time.Duration) error
}

// Timer 可取消的定时器句柄
type Timer interface {
	// Stop 停止定时器，返回是否在触发前成功停止
	Stop() bool
}

// realClock 系统时钟（默认实现）
type realClock struct{}

// NewClock 创建系统时钟
func NewClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
