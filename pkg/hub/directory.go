package hub

import (
	"sync"
	"time"
)

// ConnectionRecord 一条活跃连接的元数据。
// JSON 字段名是状态客户端的兼容面，与 SignalR 协议的 camelCase 一致。
type ConnectionRecord struct {
	ConnectionID     string    `json:"connectionId"`
	Username         string    `json:"username,omitempty"`
	ConnectedAt      time.Time `json:"connectedAt"`
	UserAgent        string    `json:"userAgent"`
	RemoteIPAddress  string    `json:"remoteIpAddress"`
	IsChatConnection bool      `json:"isChatConnection"`
	IsStatusMonitor  bool      `json:"isStatusMonitor"`

	// ConnectionDuration 在快照时刻计算，不落库
	ConnectionDuration time.Duration `json:"connectionDuration"`
}

// ConnectionDirectory 连接目录，connectionId -> ConnectionRecord。
//
// 所有变更在同一把锁下串行执行，Snapshot 不会观察到中间状态；
// 快照按插入顺序返回，顺序稳定。零值不可用，必须通过
// NewConnectionDirectory 创建。
type ConnectionDirectory struct {
	mu      sync.RWMutex
	records map[string]*ConnectionRecord
	order   []string // 插入顺序
	now     func() time.Time
}

// NewConnectionDirectory 创建连接目录
func NewConnectionDirectory() *ConnectionDirectory {
	return &ConnectionDirectory{
		records: make(map[string]*ConnectionRecord),
		now:     time.Now,
	}
}

// UpsertOnConnect 状态频道连接时写入目录。
//
// 已存在的记录只做角色合并：标记 IsStatusMonitor 并补充 UserAgent /
// RemoteIPAddress，不覆盖已注册的用户名和聊天角色，ConnectedAt 保持
// 首次入库时间不变。
func (d *ConnectionDirectory) UpsertOnConnect(id, userAgent, remoteAddr string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if rec, ok := d.records[id]; ok {
		rec.IsStatusMonitor = true
		rec.UserAgent = userAgent
		rec.RemoteIPAddress = remoteAddr
		return
	}

	d.records[id] = &ConnectionRecord{
		ConnectionID:    id,
		ConnectedAt:     d.now(),
		UserAgent:       userAgent,
		RemoteIPAddress: remoteAddr,
		IsStatusMonitor: true,
	}
	d.order = append(d.order, id)
}

// RegisterChatIdentity 绑定聊天身份。
//
// 已存在的记录设置用户名并标记聊天角色（状态连接注册聊天身份后双角色
// 并存）；不存在则新建仅含聊天角色的记录。
func (d *ConnectionDirectory) RegisterChatIdentity(id, username string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if rec, ok := d.records[id]; ok {
		rec.Username = username
		rec.IsChatConnection = true
		return
	}

	d.records[id] = &ConnectionRecord{
		ConnectionID:     id,
		Username:         username,
		ConnectedAt:      d.now(),
		IsChatConnection: true,
	}
	d.order = append(d.order, id)
}

// Remove 删除记录，id 不存在时为空操作
func (d *ConnectionDirectory) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.records[id]; !ok {
		return
	}
	delete(d.records, id)
	for i, oid := range d.order {
		if oid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Get 查询单条记录的副本
func (d *ConnectionDirectory) Get(id string) (ConnectionRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.records[id]
	if !ok {
		return ConnectionRecord{}, false
	}
	cp := *rec
	cp.ConnectionDuration = d.now().Sub(rec.ConnectedAt)
	return cp, true
}

// Snapshot 返回全部记录的深拷贝，按插入顺序排列。
// ConnectionDuration 在快照时刻计算。
func (d *ConnectionDirectory) Snapshot() []ConnectionRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	now := d.now()
	out := make([]ConnectionRecord, 0, len(d.order))
	for _, id := range d.order {
		rec := d.records[id]
		cp := *rec
		cp.ConnectionDuration = now.Sub(rec.ConnectedAt)
		out = append(out, cp)
	}
	return out
}

// Len 当前记录数
func (d *ConnectionDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}
