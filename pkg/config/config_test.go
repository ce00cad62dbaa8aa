package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "app.yaml", `
server:
  port: 8080
  debug: true
  timeout: 5s
name: pulse
`)

	c := New(WithFile(path))
	require.NoError(t, c.Load())
	defer c.Close()

	assert.Equal(t, "pulse", c.GetString("name"))
	assert.Equal(t, 8080, c.GetInt("server.port"))
	assert.True(t, c.GetBool("server.debug"))
	assert.Equal(t, 5*time.Second, c.GetDuration("server.timeout"))
	assert.True(t, c.IsSet("server.port"))
	assert.False(t, c.IsSet("server.host"))
}

func TestLoadWithSearchPaths(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "app.yaml", "name: from-search\n")

	c := New(WithName("app"), WithType("yaml"), WithPaths(dir))
	require.NoError(t, c.Load())
	defer c.Close()

	assert.Equal(t, "from-search", c.GetString("name"))
}

func TestLoadMissingFile(t *testing.T) {
	c := New(WithFile(filepath.Join(t.TempDir(), "absent.yaml")))
	err := c.Load()
	assert.ErrorIs(t, err, ErrConfigReadFailed)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "app.yaml", "name: pulse\n")

	c := New(
		WithFile(path),
		WithDefaults(map[string]any{"port": 9090, "name": "ignored"}),
	)
	require.NoError(t, c.Load())
	defer c.Close()

	// 文件值覆盖默认值，缺失的键回退默认值
	assert.Equal(t, "pulse", c.GetString("name"))
	assert.Equal(t, 9090, c.GetInt("port"))
}

func TestUnmarshal(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "app.yaml", `
server:
  port: 8080
  name: api
`)

	c := New(WithFile(path))
	require.NoError(t, c.Load())
	defer c.Close()

	var out struct {
		Server struct {
			Port int    `mapstructure:"port"`
			Name string `mapstructure:"name"`
		} `mapstructure:"server"`
	}
	require.NoError(t, c.Unmarshal(&out))
	assert.Equal(t, 8080, out.Server.Port)
	assert.Equal(t, "api", out.Server.Name)

	var server struct {
		Port int `mapstructure:"port"`
	}
	require.NoError(t, c.UnmarshalKey("server", &server))
	assert.Equal(t, 8080, server.Port)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "app.yaml", "name: before\n")

	var changes atomic.Int32
	c := New(WithFile(path), WithOnChange(func() {
		changes.Add(1)
	}))
	require.NoError(t, c.Load())
	require.NoError(t, c.Watch())
	defer c.Close()

	require.NoError(t, os.WriteFile(path, []byte("name: after\n"), 0o644))

	assert.Eventually(t, func() bool {
		return changes.Load() > 0 && c.GetString("name") == "after"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatchRequiresLoadedFile(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Watch(), ErrNoConfigFile)
}

func TestWatchTwice(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "app.yaml", "name: x\n")

	c := New(WithFile(path))
	require.NoError(t, c.Load())
	require.NoError(t, c.Watch())
	defer c.Close()

	assert.ErrorIs(t, c.Watch(), ErrAlreadyWatching)
}

func TestStopWatchIdempotent(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "app.yaml", "name: x\n")

	c := New(WithFile(path))
	require.NoError(t, c.Load())
	require.NoError(t, c.Watch())

	c.StopWatch()
	assert.NotPanics(t, func() { c.StopWatch() })
	assert.NotPanics(t, func() { c.Close() })
}
