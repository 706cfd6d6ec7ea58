package hub

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tokmz/pulse/pkg/logger"
)

// ChatChannel 聊天频道。
//
// 连接本身不产生目录记录，聊天身份只在显式 RegisterUser 时建立。
// 目录变更经 StatusChannel 的跨频道钩子落到共享目录；广播一律经
// Broadcaster 发出，不等待投递结果。
type ChatChannel struct {
	directory *ConnectionDirectory
	groups    *GroupMembership
	status    *StatusChannel
	sink      Broadcaster
	events    *EventBus
	log       logger.Logger
	now       func() time.Time
}

// Connect 聊天连接建立，不改目录
func (c *ChatChannel) Connect(id string) {
	c.events.Publish(Event{Type: EventConnectionOpened, ConnectionID: id, Time: c.now()})
	c.log.Debug("chat connection opened", zap.String("connection_id", id))
}

// RegisterUser 注册聊天身份并向全部连接通报加入
func (c *ChatChannel) RegisterUser(id, username string) {
	c.status.RegisterChatConnection(id, username)

	c.log.Info("user registered",
		zap.String("connection_id", id),
		zap.String("username", username))

	c.broadcast(EventUserJoined, systemSender, fmt.Sprintf(textUserJoined, username))
}

// Disconnect 聊天连接断开。
//
// 目录中存在记录（即注册过）时删除记录并向其余连接通报离开；
// 从未注册的连接只做组清理，不产生广播。
func (c *ChatChannel) Disconnect(id string) {
	rec, registered := c.directory.Get(id)

	// 组清理订阅在 EventConnectionClosed 上同步执行
	c.events.Publish(Event{Type: EventConnectionClosed, ConnectionID: id, Time: c.now()})

	if !registered {
		c.log.Debug("unregistered chat connection closed", zap.String("connection_id", id))
		return
	}

	c.status.RemoveChatConnection(id)

	c.log.Info("user left",
		zap.String("connection_id", id),
		zap.String("username", rec.Username))

	c.broadcast(EventUserLeft, systemSender, fmt.Sprintf(textUserLeft, rec.Username))
}

// SendMessage 向全部连接广播消息。
// user 为发送方自报的名字，服务端不做身份校验（沿用既有客户端契约）。
func (c *ChatChannel) SendMessage(id, user, text string) {
	c.broadcast(EventReceiveMessage, user, text, c.now())
}

// SendMessageToGroup 只向指定组的成员广播消息
func (c *ChatChannel) SendMessageToGroup(id, group, user, text string) {
	c.sink.SendToGroup(group, EventReceiveMessage, user, text, c.now())
	c.emit(EventReceiveMessage)
}

// JoinGroup 加入组并向组内（含加入者本人）通报
func (c *ChatChannel) JoinGroup(id, group string) {
	c.groups.Join(group, id)

	c.log.Debug("connection joined group",
		zap.String("connection_id", id),
		zap.String("group", group))

	c.sink.SendToGroup(group, EventUserJoinedGroup,
		systemSender, fmt.Sprintf(textUserJoinedGroup, id, group))
	c.emit(EventUserJoinedGroup)
}

// LeaveGroup 离开组并向组内剩余成员通报
func (c *ChatChannel) LeaveGroup(id, group string) {
	c.groups.Leave(group, id)

	c.log.Debug("connection left group",
		zap.String("connection_id", id),
		zap.String("group", group))

	c.sink.SendToGroup(group, EventUserLeftGroup,
		systemSender, fmt.Sprintf(textUserLeftGroup, id, group))
	c.emit(EventUserLeftGroup)
}

// Typing 输入提示，发给除发送者外的全部连接
func (c *ChatChannel) Typing(id, user string) {
	c.sink.SendToOthers(id, EventUserTyping, user)
	c.emit(EventUserTyping)
}

// StoppedTyping 停止输入提示，发给除发送者外的全部连接
func (c *ChatChannel) StoppedTyping(id, user string) {
	c.sink.SendToOthers(id, EventUserStoppedTyping, user)
	c.emit(EventUserStoppedTyping)
}

// TypingToGroup 输入提示，发给组内除发送者外的成员
func (c *ChatChannel) TypingToGroup(id, group, user string) {
	c.sink.SendToGroupExcept(group, id, EventUserTyping, user)
	c.emit(EventUserTyping)
}

// StoppedTypingToGroup 停止输入提示，发给组内除发送者外的成员
func (c *ChatChannel) StoppedTypingToGroup(id, group, user string) {
	c.sink.SendToGroupExcept(group, id, EventUserStoppedTyping, user)
	c.emit(EventUserStoppedTyping)
}

// broadcast 向全部连接发送并记录广播事件
func (c *ChatChannel) broadcast(event string, args ...any) {
	c.sink.SendToAll(event, args...)
	c.emit(event)
}

// emit 发布广播统计事件
func (c *ChatChannel) emit(event string) {
	c.events.Publish(Event{Type: EventBroadcastSent, Name: event, Time: c.now()})
}
