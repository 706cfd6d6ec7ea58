package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.ServiceName = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.SamplingRate = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ExporterType = "jaeger"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ExporterType = "otlp-grpc"
	assert.NoError(t, cfg.Validate())
}

func TestNewTracerProviderNoop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	tp, err := NewTracerProvider(cfg)
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.NoError(t, Shutdown(context.Background()))
}
