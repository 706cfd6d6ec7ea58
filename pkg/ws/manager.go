package ws

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
)

// Memberships 组成员只读视图。组关系由业务层维护，
// 传输层只在组广播时查询成员。
type Memberships interface {
	MembersOf(group string) []string
}

// ConnectHook 连接建立回调
type ConnectHook func(id, userAgent, remoteAddr string)

// DisconnectHook 连接断开回调
type DisconnectHook func(id string)

// Manager 单个端点的 WebSocket 管理器。
// 每个端点持有独立的连接池和路由器，广播范围以端点为界。
type Manager struct {
	// 核心组件
	pool   *ConnectionPool
	router *FrameRouter

	// 配置
	config   *Config
	upgrader *Upgrader

	// 业务挂载点
	memberships  Memberships
	onConnect    ConnectHook
	onDisconnect DisconnectHook

	// 生命周期
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// 监控
	metrics Metrics
}

// NewManager 创建管理器
func NewManager(opts ...Option) (*Manager, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// 默认监控
	if config.Metrics == nil {
		config.Metrics = &NoopMetrics{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		pool:     NewConnectionPool(config.MaxConnections),
		router:   NewFrameRouter(),
		config:   config,
		upgrader: NewUpgrader(config.UpgraderConfig),
		ctx:      ctx,
		cancel:   cancel,
		metrics:  config.Metrics,
	}

	return m, nil
}

// SetMemberships 挂载组成员视图
func (m *Manager) SetMemberships(v Memberships) {
	m.memberships = v
}

// OnConnect 设置连接建立回调
func (m *Manager) OnConnect(hook ConnectHook) {
	m.onConnect = hook
}

// OnDisconnect 设置连接断开回调
func (m *Manager) OnDisconnect(hook DisconnectHook) {
	m.onDisconnect = hook
}

// Register 注册调用处理器
func (m *Manager) Register(target string, handler Handler) error {
	return m.router.Register(target, handler)
}

// Freeze 冻结路由器
func (m *Manager) Freeze() {
	m.router.Freeze()
}

// HandleUpgrade 处理 WebSocket 升级
func (m *Manager) HandleUpgrade(w http.ResponseWriter, r *http.Request) error {
	userAgent := r.Header.Get("User-Agent")
	remoteAddr := clientIP(r)

	conn, err := m.upgrader.Upgrade(w, r)
	if err != nil {
		return err
	}

	client := NewClient(conn, m, userAgent, remoteAddr)

	// 添加到连接池（内部会原子检查连接数限制）
	if err := m.pool.Add(client); err != nil {
		client.Close()
		return err
	}

	m.metrics.IncrementConnections()
	m.metrics.SetConnectionCount(m.pool.Count())

	// 先通知业务层，保证处理器看到的连接已入册
	if m.onConnect != nil {
		m.onConnect(client.ID, userAgent, remoteAddr)
	}

	// 启动客户端
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		client.Run()
	}()

	return nil
}

// handleDisconnect 客户端关闭时的收尾
func (m *Manager) handleDisconnect(c *Client) {
	m.metrics.DecrementConnections()
	m.metrics.SetConnectionCount(m.pool.Count())

	if m.onDisconnect != nil {
		m.onDisconnect(c.ID)
	}
}

// GetClient 获取客户端
func (m *Manager) GetClient(id string) (*Client, bool) {
	return m.pool.Get(id)
}

// GetClientCount 获取连接数
func (m *Manager) GetClientCount() int {
	return m.pool.Count()
}

// SendToAll 向端点内全部连接广播事件
func (m *Manager) SendToAll(event string, args ...any) {
	data, err := EncodeEventFrame(event, args...)
	if err != nil {
		return
	}

	m.pool.Range(func(c *Client) bool {
		if err := c.SendBytes(data); err != nil {
			m.metrics.IncrementDroppedSends()
		}
		return true
	})
}

// SendToOthers 向除 exclude 外的全部连接广播事件
func (m *Manager) SendToOthers(exclude, event string, args ...any) {
	data, err := EncodeEventFrame(event, args...)
	if err != nil {
		return
	}

	m.pool.Range(func(c *Client) bool {
		if c.ID == exclude {
			return true
		}
		if err := c.SendBytes(data); err != nil {
			m.metrics.IncrementDroppedSends()
		}
		return true
	})
}

// SendToGroup 向组成员广播事件
func (m *Manager) SendToGroup(group, event string, args ...any) {
	m.sendToGroup(group, "", event, args...)
}

// SendToGroupExcept 向除 exclude 外的组成员广播事件
func (m *Manager) SendToGroupExcept(group, exclude, event string, args ...any) {
	m.sendToGroup(group, exclude, event, args...)
}

// sendToGroup 组广播公共路径
func (m *Manager) sendToGroup(group, exclude, event string, args ...any) {
	if m.memberships == nil {
		return
	}

	data, err := EncodeEventFrame(event, args...)
	if err != nil {
		return
	}

	for _, id := range m.memberships.MembersOf(group) {
		if id == exclude {
			continue
		}
		// 成员可能已断开但组索引尚未更新，忽略缺失
		client, ok := m.pool.Get(id)
		if !ok {
			continue
		}
		if err := client.SendBytes(data); err != nil {
			m.metrics.IncrementDroppedSends()
		}
	}
}

// Shutdown 优雅关闭
func (m *Manager) Shutdown(ctx context.Context) error {
	m.cancel()

	// 并发关闭所有客户端
	var closeWg sync.WaitGroup
	m.pool.Range(func(c *Client) bool {
		closeWg.Add(1)
		go func(client *Client) {
			defer closeWg.Done()
			client.Close()
		}(c)
		return true
	})

	clientsDone := make(chan struct{})
	go func() {
		closeWg.Wait()
		close(clientsDone)
	}()

	select {
	case <-clientsDone:
	case <-ctx.Done():
		// 超时，但继续等待 goroutine 清理
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// clientIP 解析客户端地址，代理头优先
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
