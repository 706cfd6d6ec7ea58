package ws

// Metrics 传输层监控接口
type Metrics interface {
	// 连接指标
	IncrementConnections()
	DecrementConnections()
	SetConnectionCount(count int)

	// 错误指标
	IncrementDroppedSends()
	IncrementReadErrors()
	IncrementInvalidFrames()
}

// NoopMetrics 空实现（默认）
type NoopMetrics struct{}

func (m *NoopMetrics) IncrementConnections()        {}
func (m *NoopMetrics) DecrementConnections()        {}
func (m *NoopMetrics) SetConnectionCount(count int) {}
func (m *NoopMetrics) IncrementDroppedSends()       {}
func (m *NoopMetrics) IncrementReadErrors()         {}
func (m *NoopMetrics) IncrementInvalidFrames()      {}
