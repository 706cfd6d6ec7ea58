package ws

import "sync"

// Handler 调用处理器
type Handler func(*Client, *Frame) error

// FrameRouter 调用路由器。按 Target 将入站调用帧分发到处理器。
type FrameRouter struct {
	handlers map[string]Handler
	mu       sync.RWMutex
	frozen   bool
}

// NewFrameRouter 创建路由器
func NewFrameRouter() *FrameRouter {
	return &FrameRouter{
		handlers: make(map[string]Handler),
	}
}

// Register 注册处理器
func (r *FrameRouter) Register(target string, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRouterFrozen
	}

	if _, exists := r.handlers[target]; exists {
		return ErrHandlerExists
	}

	r.handlers[target] = handler
	return nil
}

// Freeze 冻结路由器（启动后不可修改）
func (r *FrameRouter) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Route 路由调用帧
func (r *FrameRouter) Route(client *Client, frame *Frame) error {
	r.mu.RLock()
	handler, exists := r.handlers[frame.Target]
	r.mu.RUnlock()

	if !exists {
		return ErrHandlerNotFound
	}
	return handler(client, frame)
}
