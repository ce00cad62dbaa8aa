package config

// Option 配置选项函数
type Option func(*Config)

// WithFile 指定配置文件完整路径
func WithFile(file string) Option {
	return func(c *Config) {
		c.configFile = file
	}
}

// WithName 指定配置文件名（不含扩展名）
func WithName(name string) Option {
	return func(c *Config) {
		c.configName = name
	}
}

// WithType 指定配置文件类型（yaml、json、toml 等）
func WithType(typ string) Option {
	return func(c *Config) {
		c.configType = typ
	}
}

// WithPaths 添加配置文件搜索路径
func WithPaths(paths ...string) Option {
	return func(c *Config) {
		c.configPaths = append(c.configPaths, paths...)
	}
}

// WithDefaults 设置默认配置值
func WithDefaults(defaults map[string]any) Option {
	return func(c *Config) {
		if c.defaults == nil {
			c.defaults = make(map[string]any)
		}
		for k, v := range defaults {
			c.defaults[k] = v
		}
	}
}

// WithEnvPrefix 设置环境变量前缀，启用环境变量覆盖
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithOnChange 设置配置变更回调，配合 Watch 使用
func WithOnChange(fn func()) Option {
	return func(c *Config) {
		c.onChange = fn
	}
}
