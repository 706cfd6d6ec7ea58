package hub

import (
	"time"

	"github.com/tokmz/pulse/pkg/logger"
)

// Hub 聚合两个频道及其共享状态。
//
// 连接目录和组成员索引都只有一份，两个频道在构造时注入同一实例；
// 不存在任何包级共享状态。
type Hub struct {
	directory *ConnectionDirectory
	groups    *GroupMembership
	events    *EventBus
	metrics   Metrics
	chat      *ChatChannel
	status    *StatusChannel
	log       logger.Logger
}

// Option 配置选项
type Option func(*Hub)

// WithLogger 设置日志实例
func WithLogger(log logger.Logger) Option {
	return func(h *Hub) {
		h.log = log
	}
}

// WithMetrics 设置监控实现
func WithMetrics(m Metrics) Option {
	return func(h *Hub) {
		h.metrics = m
	}
}

// WithClock 设置时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(h *Hub) {
		h.directory.now = now
		h.chat.now = now
		h.status.now = now
	}
}

// New 创建 Hub。chatSink / statusSink 分别是聊天频道与状态频道的
// 出站广播实现（两个频道各有独立的订阅者集合）。
func New(chatSink, statusSink Broadcaster, opts ...Option) *Hub {
	h := &Hub{
		directory: NewConnectionDirectory(),
		groups:    NewGroupMembership(),
		events:    NewEventBus(),
		metrics:   NoopMetrics{},
		log:       logger.Nop(),
	}

	h.status = &StatusChannel{
		directory: h.directory,
		sink:      statusSink,
		events:    h.events,
		now:       time.Now,
	}
	h.chat = &ChatChannel{
		directory: h.directory,
		groups:    h.groups,
		status:    h.status,
		sink:      chatSink,
		events:    h.events,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(h)
	}
	h.chat.log = h.log
	h.status.log = h.log

	h.setupEventHandlers()

	return h
}

// Chat 聊天频道
func (h *Hub) Chat() *ChatChannel {
	return h.chat
}

// Status 状态频道
func (h *Hub) Status() *StatusChannel {
	return h.status
}

// Groups 组成员索引
func (h *Hub) Groups() *GroupMembership {
	return h.groups
}

// Directory 连接目录
func (h *Hub) Directory() *ConnectionDirectory {
	return h.directory
}

// Events 事件总线
func (h *Hub) Events() *EventBus {
	return h.events
}

// Close 关闭事件总线
func (h *Hub) Close() {
	h.events.Close()
}

// setupEventHandlers 订阅内部事件
func (h *Hub) setupEventHandlers() {
	h.events.Subscribe(EventConnectionOpened, func(e Event) {
		h.metrics.IncrementConnections()
		h.metrics.SetConnectionCount(h.directory.Len())
	})

	h.events.Subscribe(EventConnectionClosed, func(e Event) {
		// 组成员不依赖传输层清理，断开即移除
		h.groups.RemoveAll(e.ConnectionID)
		h.metrics.DecrementConnections()
		h.metrics.SetConnectionCount(h.directory.Len())
	})

	h.events.Subscribe(EventBroadcastSent, func(e Event) {
		h.metrics.IncrementBroadcast(e.Name)
	})
}
