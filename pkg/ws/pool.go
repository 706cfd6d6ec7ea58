package ws

import (
	"sync"
	"sync/atomic"
)

// ConnectionPool 连接池管理器
type ConnectionPool struct {
	clients  sync.Map     // connectionID -> *Client
	count    atomic.Int64 // 连接数
	maxConns int          // 最大连接数
}

// NewConnectionPool 创建连接池
func NewConnectionPool(maxConns int) *ConnectionPool {
	return &ConnectionPool{
		maxConns: maxConns,
	}
}

// Add 添加客户端
func (p *ConnectionPool) Add(client *Client) error {
	// 先检查 ID 是否存在，避免计数不一致
	if _, loaded := p.clients.LoadOrStore(client.ID, client); loaded {
		return ErrClientIDExists
	}

	// 递增计数并检查限制
	newCount := p.count.Add(1)
	if int(newCount) > p.maxConns {
		// 超过限制，回滚操作
		p.count.Add(-1)
		p.clients.Delete(client.ID)
		return ErrTooManyConnections
	}

	return nil
}

// Remove 移除客户端
func (p *ConnectionPool) Remove(connectionID string) {
	if _, loaded := p.clients.LoadAndDelete(connectionID); loaded {
		p.count.Add(-1)
	}
}

// Get 获取客户端
func (p *ConnectionPool) Get(connectionID string) (*Client, bool) {
	value, ok := p.clients.Load(connectionID)
	if !ok {
		return nil, false
	}
	client, ok := value.(*Client)
	if !ok {
		return nil, false
	}
	return client, true
}

// Count 获取连接数
func (p *ConnectionPool) Count() int {
	return int(p.count.Load())
}

// Range 遍历所有客户端
func (p *ConnectionPool) Range(f func(*Client) bool) {
	p.clients.Range(func(key, value any) bool {
		client, ok := value.(*Client)
		if !ok {
			return true
		}
		return f(client)
	})
}
