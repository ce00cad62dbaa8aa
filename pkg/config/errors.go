package config

import "errors"

var (
	// ErrConfigNotFound 配置文件未找到
	ErrConfigNotFound = errors.New("config: file not found")
	// ErrConfigReadFailed 配置文件读取失败
	ErrConfigReadFailed = errors.New("config: read failed")
	// ErrWatchNotStarted 监控未启动
	ErrWatchNotStarted = errors.New("config: watch not started")
	// ErrAlreadyWatching 监控已启动
	ErrAlreadyWatching = errors.New("config: already watching")
	// ErrNoConfigFile 没有可监控的配置文件
	ErrNoConfigFile = errors.New("config: no config file to watch")
)
