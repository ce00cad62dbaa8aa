package pulse

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tokmz/pulse/pkg/logger"
)

// RetryConfig 重试配置
type RetryConfig struct {
	// MaxAttempts 最大尝试次数，含首次（默认 3）
	MaxAttempts int

	// BaseDelay 首次退避时长（默认 1s）
	// 第 k 次失败后等待 BaseDelay * 2^(k-1)，纯指数退避，无抖动。
	BaseDelay time.Duration

	// Logger 重试日志输出
	Logger logger.Logger

	// Clock 时钟（测试用）
	Clock Clock
}

// DefaultRetryConfig 返回默认重试配置
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
	}
}

// normalize 填充零值字段为默认值
func (c *RetryConfig) normalize() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	if c.Clock == nil {
		c.Clock = NewClock()
	}
}

// backoff 计算第 attempt 次失败后的退避时长
func (c *RetryConfig) backoff(attempt int) time.Duration {
	return c.BaseDelay << (attempt - 1)
}

// Retry 带指数退避地执行可失败操作
//
// 依次发起 1..MaxAttempts 次尝试，第 k 次失败后等待
// BaseDelay * 2^(k-1) 再试。最后一次的错误原样返回给调用方，
// 不做包装也不吞掉。退避等待期间 ctx 取消会立即中止并返回 ctx 错误。
func Retry[T any](ctx context.Context, cfg *RetryConfig, op func(ctx context.Context) (T, error)) (T, error) {
	if cfg == nil {
		cfg = DefaultRetryConfig()
	}
	cfg.normalize()

	var zero T
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}

		delay := cfg.backoff(attempt)
		cfg.Logger.Warn("operation failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", cfg.MaxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := cfg.Clock.Sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}

// RetryFunc 无返回值版本的 Retry
func RetryFunc(ctx context.Context, cfg *RetryConfig, op func(ctx context.Context) error) error {
	_, err := Retry(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
