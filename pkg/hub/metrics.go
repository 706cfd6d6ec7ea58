package hub

// Metrics 监控接口
type Metrics interface {
	// 连接指标
	IncrementConnections()
	DecrementConnections()
	SetConnectionCount(count int)

	// 广播指标
	IncrementBroadcast(event string)
	IncrementDroppedSends()
}

// NoopMetrics 空实现（默认）
type NoopMetrics struct{}

func (NoopMetrics) IncrementConnections()        {}
func (NoopMetrics) DecrementConnections()        {}
func (NoopMetrics) SetConnectionCount(count int) {}
func (NoopMetrics) IncrementBroadcast(event string) {}
func (NoopMetrics) IncrementDroppedSends()       {}
