package hub

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventType 事件类型
type EventType string

const (
	// EventConnectionOpened 连接建立（任一频道）
	EventConnectionOpened EventType = "connection.opened"
	// EventConnectionClosed 连接断开（任一频道）
	EventConnectionClosed EventType = "connection.closed"
	// EventBroadcastSent 一次出站广播已提交给传输层
	EventBroadcastSent EventType = "broadcast.sent"
)

// Event 事件
type Event struct {
	Type         EventType
	ConnectionID string
	Name         string // 广播事件名（仅 EventBroadcastSent）
	Time         time.Time
}

// EventHandler 事件处理器
type EventHandler func(Event)

// EventBus 进程内事件总线。
//
// 生命周期事件（连接建立/断开）同步派发：订阅者在 Publish 返回前执行
// 完毕，保证断开清理先于同一调用方的后续操作。其余事件经固定 worker
// 池异步派发，队列满时丢弃并计数。
type EventBus struct {
	handlers      map[EventType][]EventHandler
	mu            sync.RWMutex
	workerCh      chan func()
	stopCh        chan struct{}
	wg            sync.WaitGroup
	closed        atomic.Bool
	droppedEvents atomic.Int64
}

// NewEventBus 创建事件总线
func NewEventBus() *EventBus {
	eb := &EventBus{
		handlers: make(map[EventType][]EventHandler),
		workerCh: make(chan func(), 256),
		stopCh:   make(chan struct{}),
	}

	for i := 0; i < 4; i++ {
		eb.wg.Add(1)
		go eb.worker()
	}

	return eb
}

// worker 工作协程
func (eb *EventBus) worker() {
	defer eb.wg.Done()
	for {
		select {
		case task := <-eb.workerCh:
			task()
		case <-eb.stopCh:
			return
		}
	}
}

// Subscribe 订阅事件
func (eb *EventBus) Subscribe(eventType EventType, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
}

// Publish 发布事件
func (eb *EventBus) Publish(event Event) {
	if eb.closed.Load() {
		return
	}

	eb.mu.RLock()
	handlers := eb.handlers[event.Type]
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	// 生命周期事件同步派发，保证清理顺序
	if event.Type == EventConnectionOpened || event.Type == EventConnectionClosed {
		for _, h := range handlers {
			h(event)
		}
		return
	}

	for _, handler := range handlers {
		h := handler
		select {
		case eb.workerCh <- func() { h(event) }:
		default:
			// 队列满时丢弃
			eb.droppedEvents.Add(1)
		}
	}
}

// Close 关闭事件总线
func (eb *EventBus) Close() {
	eb.closed.Store(true)
	close(eb.stopCh)
	eb.wg.Wait()
	// workerCh 不关闭，避免并发 Publish 导致 panic；残留任务被丢弃
}

// DroppedEventCount 已丢弃的事件数量
func (eb *EventBus) DroppedEventCount() int64 {
	return eb.droppedEvents.Load()
}
