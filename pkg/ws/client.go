package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client 一条 WebSocket 连接
type Client struct {
	ID      string
	conn    *websocket.Conn
	manager *Manager

	// 发送队列
	send chan []byte

	// 握手元数据
	UserAgent  string
	remoteAddr string

	// 心跳
	lastPong atomic.Int64 // Unix timestamp

	// 生命周期
	ctx       context.Context
	cancel    context.CancelFunc
	closed    atomic.Bool
	closeOnce sync.Once
	writeDone chan struct{} // 标记 writePump 已退出

	// 限流
	invalidFrameCount atomic.Int32 // 无效帧计数

	// 配置
	config *ClientConfig
}

// ClientConfig 客户端配置
type ClientConfig struct {
	SendQueueSize  int
	WriteWait      time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
}

// NewClient 创建客户端
func NewClient(conn *websocket.Conn, manager *Manager, userAgent, remoteAddr string) *Client {
	ctx, cancel := context.WithCancel(manager.ctx)

	config := &ClientConfig{
		SendQueueSize:  manager.config.SendQueueSize,
		WriteWait:      manager.config.WriteWait,
		PongWait:       manager.config.HeartbeatTimeout,
		MaxMessageSize: manager.config.MaxMessageSize,
	}

	client := &Client{
		ID:         uuid.NewString(),
		conn:       conn,
		manager:    manager,
		send:       make(chan []byte, config.SendQueueSize),
		UserAgent:  userAgent,
		remoteAddr: remoteAddr,
		ctx:        ctx,
		cancel:     cancel,
		config:     config,
		writeDone:  make(chan struct{}),
	}

	client.lastPong.Store(time.Now().Unix())

	return client
}

// Run 运行客户端
func (c *Client) Run() {
	var wg sync.WaitGroup
	wg.Add(2)

	// 读协程
	go func() {
		defer wg.Done()
		c.readPump()
	}()

	// 写协程
	go func() {
		defer wg.Done()
		c.writePump()
	}()

	wg.Wait()
	c.Close()
}

// readPump 读取帧
func (c *Client) readPump() {
	defer func() {
		c.Close()
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait)); err != nil {
		c.manager.metrics.IncrementReadErrors()
		return
	}
	c.conn.SetPongHandler(func(string) error {
		c.lastPong.Store(time.Now().Unix())
		return c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					c.manager.metrics.IncrementReadErrors()
				}
				return
			}

			// 解析帧
			var frame Frame
			if err := json.Unmarshal(data, &frame); err != nil {
				c.manager.metrics.IncrementInvalidFrames()
				// 累计无效帧次数，超过阈值关闭连接
				count := c.invalidFrameCount.Add(1)
				if count > 10 {
					return
				}
				_ = c.SendErrorFrame("", "invalid frame format")
				continue
			}

			// 成功解析，重置计数器
			c.invalidFrameCount.Store(0)

			// 路由调用帧
			if err := c.manager.router.Route(c, &frame); err != nil {
				_ = c.SendErrorFrame(frame.Target, err.Error())
			}
		}
	}
}

// writePump 写入帧
func (c *Client) writePump() {
	ticker := time.NewTicker(c.manager.config.HeartbeatInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.writeDone) // 标记 writePump 已退出
	}()

	for {
		select {
		case <-c.ctx.Done():
			// 尝试发送关闭消息，忽略错误
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeMessage(message); err != nil {
				return
			}

		case <-ticker.C:
			// 发送心跳
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeMessage 写入单帧
func (c *Client) writeMessage(message []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// SendBytes 发送字节帧（非阻塞，队列满即丢弃）
func (c *Client) SendBytes(msg []byte) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	select {
	case c.send <- msg:
		return nil
	default:
		return ErrChannelFull
	}
}

// SendEvent 发送事件帧
func (c *Client) SendEvent(target string, args ...any) error {
	data, err := EncodeEventFrame(target, args...)
	if err != nil {
		return err
	}
	return c.SendBytes(data)
}

// SendErrorFrame 发送错误帧
func (c *Client) SendErrorFrame(target, message string) error {
	data, err := json.Marshal(NewErrorFrame(target, message))
	if err != nil {
		return err
	}
	return c.SendBytes(data)
}

// Close 关闭客户端
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.cancel()

		// 从连接池移除
		c.manager.pool.Remove(c.ID)

		// 关闭连接（会触发 writePump 退出）
		c.conn.Close()

		// 等待 writePump 退出后再关闭通道，使用超时避免永久阻塞
		go func() {
			select {
			case <-c.writeDone:
				close(c.send)
			case <-time.After(5 * time.Second):
				// writePump 可能未启动，直接关闭
				close(c.send)
			}
		}()

		// 通知业务层
		c.manager.handleDisconnect(c)
	})
}

// IsClosed 检查是否已关闭
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}

// RemoteAddr 获取远程地址
func (c *Client) RemoteAddr() string {
	return c.remoteAddr
}
