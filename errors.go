package pulse

import "errors"

// 错误定义
var (
	// 管道相关错误
	ErrNilTransport  = errors.New("pulse: transport is nil")
	ErrInvalidConfig = errors.New("pulse: invalid config")

	// 事件相关错误
	ErrNilHandler     = errors.New("pulse: handler is nil")
	ErrEventNameEmpty = errors.New("pulse: event name is empty")
	ErrRuleExists     = errors.New("pulse: event rule already registered")
)
