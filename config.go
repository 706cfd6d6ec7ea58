package pulse

import (
	"strings"
	"time"

	"github.com/tokmz/pulse/pkg/config"
	"github.com/tokmz/pulse/pkg/logger"
	"github.com/tokmz/pulse/pkg/tracing"
)

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	// Addr 监听地址，默认 ":5095"
	Addr string `mapstructure:"addr"`

	// ReadTimeout 读取超时
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout 写入超时
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// IdleTimeout 空闲超时
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// ShutdownTimeout 优雅关机超时
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	// AllowOrigins 允许的源列表
	AllowOrigins []string `mapstructure:"allow_origins"`

	// AllowCredentials 是否允许携带凭证
	AllowCredentials bool `mapstructure:"allow_credentials"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别（debug/info/warn/error）
	Level string `mapstructure:"level"`

	// Format 日志格式（json/console）
	Format string `mapstructure:"format"`

	// Console 是否输出到控制台
	Console bool `mapstructure:"console"`

	// File 文件路径（空则不输出到文件）
	File string `mapstructure:"file"`
}

// TracingConfig 链路追踪配置
type TracingConfig struct {
	// Enabled 是否启用
	Enabled bool `mapstructure:"enabled"`

	// Exporter 导出器类型（otlp/otlp-grpc/stdout/noop）
	Exporter string `mapstructure:"exporter"`

	// Endpoint 导出器端点
	Endpoint string `mapstructure:"endpoint"`

	// Insecure 是否使用非 TLS 连接
	Insecure bool `mapstructure:"insecure"`

	// SamplingRate 采样率
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

// WSConfig WebSocket 端点配置
type WSConfig struct {
	// MaxConnections 单端点最大连接数
	MaxConnections int `mapstructure:"max_connections"`

	// HeartbeatInterval 心跳间隔
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`

	// HeartbeatTimeout 心跳超时
	HeartbeatTimeout time.Duration `mapstructure:"heartbeat_timeout"`

	// MaxMessageSize 最大帧大小
	MaxMessageSize int64 `mapstructure:"max_message_size"`

	// SendQueueSize 出站队列大小
	SendQueueSize int `mapstructure:"send_queue_size"`

	// AllowedOrigins 升级请求的 Origin 白名单，空则同源检查
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// AllowAllOrigins 允许所有来源（仅开发环境）
	AllowAllOrigins bool `mapstructure:"allow_all_origins"`
}

// AppConfig 应用配置
type AppConfig struct {
	// Mode 运行模式：debug, release, test
	Mode string `mapstructure:"mode"`

	Server  ServerConfig  `mapstructure:"server"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
	WS      WSConfig      `mapstructure:"ws"`
}

// DefaultAppConfig 返回默认配置
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Mode: "debug",
		Server: ServerConfig{
			Addr:            ":5095",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:   "info",
			Format:  "json",
			Console: true,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "stdout",
			SamplingRate: 1.0,
		},
		WS: WSConfig{
			MaxConnections:    10000,
			HeartbeatInterval: 30 * time.Second,
			HeartbeatTimeout:  90 * time.Second,
			MaxMessageSize:    64 * 1024,
			SendQueueSize:     256,
		},
	}
}

// LoadConfig 从文件加载配置，环境变量（前缀 PULSE）可覆盖
func LoadConfig(path string) (*AppConfig, error) {
	c := config.New(
		config.WithConfigFile(path),
		config.WithEnvPrefix("PULSE"),
		config.WithEnvKeyReplacer(strings.NewReplacer(".", "_")),
	)
	if err := c.Load(); err != nil {
		return nil, err
	}

	cfg := DefaultAppConfig()
	if err := c.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildLogger 根据日志配置构建 logger
func (c *AppConfig) BuildLogger() (logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:   logger.ParseLevel(c.Log.Level),
		Format:  logger.Format(c.Log.Format),
		Console: c.Log.Console,
		File:    c.Log.File,
	})
}

// BuildTracingConfig 根据追踪配置构建 tracing.Config
func (c *AppConfig) BuildTracingConfig() *tracing.Config {
	tc := tracing.DefaultConfig()
	tc.ServiceName = "pulse"
	tc.Enabled = c.Tracing.Enabled
	if c.Tracing.Exporter != "" {
		tc.ExporterType = c.Tracing.Exporter
	}
	tc.ExporterEndpoint = c.Tracing.Endpoint
	tc.Insecure = c.Tracing.Insecure
	if c.Tracing.SamplingRate > 0 {
		tc.SamplingRate = c.Tracing.SamplingRate
	}
	return tc
}
