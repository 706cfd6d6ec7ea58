package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  addr: ":5095"
  shutdown_timeout: 10s
ws:
  max_connections: 2000
  allowed_origins:
    - https://app.example.com
log:
  level: debug
  console: true
`

func writeTestConfig(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

func TestNew(t *testing.T) {
	c := New()
	assert.NotNil(t, c)
	assert.NotNil(t, c.viper)
	assert.False(t, c.autoWatch)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "config.yaml", testYAML)

	c := New(WithConfigFile(cfgPath))
	require.NoError(t, c.Load())

	assert.Equal(t, ":5095", c.GetString("server.addr"))
	assert.Equal(t, 2000, c.GetInt("ws.max_connections"))
	assert.True(t, c.GetBool("log.console"))
	assert.Equal(t, 10*time.Second, c.GetDuration("server.shutdown_timeout"))
	assert.Equal(t, []string{"https://app.example.com"}, c.GetStringSlice("ws.allowed_origins"))
}

func TestLoadWithNameAndPaths(t *testing.T) {
	dir := t.TempDir()
	writeTestConfig(t, dir, "pulse.yaml", testYAML)

	c := New(
		WithConfigName("pulse"),
		WithConfigType("yaml"),
		WithConfigPaths(dir),
	)
	require.NoError(t, c.Load())

	assert.Equal(t, ":5095", c.GetString("server.addr"))
}

func TestLoadNotFound(t *testing.T) {
	c := New(
		WithConfigName("missing"),
		WithConfigType("yaml"),
		WithConfigPaths(t.TempDir()),
	)
	err := c.Load()
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "config.yaml", testYAML)

	c := New(
		WithConfigFile(cfgPath),
		WithDefaults(map[string]any{
			"server.addr":         ":8080",
			"ws.heartbeat_period": "30s",
		}),
	)
	require.NoError(t, c.Load())

	// 文件值覆盖默认值，缺失键落回默认值
	assert.Equal(t, ":5095", c.GetString("server.addr"))
	assert.Equal(t, 30*time.Second, c.GetDuration("ws.heartbeat_period"))
}

func TestEnvOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "config.yaml", testYAML)

	t.Setenv("PULSE_SERVER_ADDR", ":9090")

	c := New(
		WithConfigFile(cfgPath),
		WithEnvPrefix("PULSE"),
		WithEnvKeyReplacer(strings.NewReplacer(".", "_")),
	)
	require.NoError(t, c.Load())

	assert.Equal(t, ":9090", c.GetString("server.addr"))
}

func TestUnmarshalKey(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "config.yaml", testYAML)

	c := New(WithConfigFile(cfgPath))
	require.NoError(t, c.Load())

	var server struct {
		Addr            string        `mapstructure:"addr"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	}
	require.NoError(t, c.UnmarshalKey("server", &server))
	assert.Equal(t, ":5095", server.Addr)
	assert.Equal(t, 10*time.Second, server.ShutdownTimeout)
}

func TestSetAndIsSet(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "config.yaml", testYAML)

	c := New(WithConfigFile(cfgPath))
	require.NoError(t, c.Load())

	assert.False(t, c.IsSet("tracing.exporter"))
	c.Set("tracing.exporter", "stdout")
	assert.True(t, c.IsSet("tracing.exporter"))
	assert.Equal(t, "stdout", c.GetString("tracing.exporter"))
}
