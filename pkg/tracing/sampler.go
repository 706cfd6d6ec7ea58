package tracing

import (
	"go.opentelemetry.io/otel/sdk/trace"
)

// newSampler 根据配置创建采样器
func newSampler(cfg *Config) trace.Sampler {
	switch cfg.SamplingType {
	case "always":
		return trace.AlwaysSample()
	case "never":
		return trace.NeverSample()
	case "ratio":
		return trace.TraceIDRatioBased(cfg.SamplingRate)
	case "parent_based":
		return trace.ParentBased(trace.TraceIDRatioBased(cfg.SamplingRate))
	default:
		return trace.ParentBased(trace.TraceIDRatioBased(cfg.SamplingRate))
	}
}
