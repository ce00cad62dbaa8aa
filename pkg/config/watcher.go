package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch 启动配置文件监控，文件变更后自动重新加载并触发回调
func (c *Config) Watch() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watching {
		return ErrAlreadyWatching
	}

	file := c.viper.ConfigFileUsed()
	if file == "" {
		return ErrNoConfigFile
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// 监控目录而不是文件本身，编辑器的原子替换会先删除再创建文件
	if err := w.Add(filepath.Dir(file)); err != nil {
		w.Close()
		return err
	}

	c.done = make(chan struct{})
	c.watching = true

	go c.watchLoop(w, file)
	return nil
}

func (c *Config) watchLoop(w *fsnotify.Watcher, file string) {
	defer w.Close()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(file) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				c.reload()
			}
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Config) reload() {
	c.mu.Lock()
	err := c.viper.ReadInConfig()
	fn := c.onChange
	c.mu.Unlock()

	if err == nil && fn != nil {
		fn()
	}
}

// StopWatch 停止配置文件监控
func (c *Config) StopWatch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.watching {
		return
	}
	close(c.done)
	c.watching = false
}
