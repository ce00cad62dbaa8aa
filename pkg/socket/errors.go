package socket

import "errors"

var (
	// ErrClosed 连接已关闭
	ErrClosed = errors.New("socket: closed")
	// ErrQueueFull 发送队列已满
	ErrQueueFull = errors.New("socket: send queue full")
	// ErrDialFailed 连接建立失败
	ErrDialFailed = errors.New("socket: dial failed")
)
