package hub

import (
	"time"

	"go.uber.org/zap"

	"github.com/tokmz/pulse/pkg/logger"
)

// unknownValue 连接来源信息缺失时的占位值
const unknownValue = "Unknown"

// StatusChannel 状态监控频道。
//
// 连接/断开会变更共享的连接目录，并把重新计算的在线统计推送给全部
// 状态订阅者。RegisterChatConnection / RemoveChatConnection 是聊天频道
// 调用的跨频道钩子：只改目录、不触发推送——状态订阅者要等到下一次
// 状态频道自身的连接或断开才会看到聊天侧的变化，主动 GetStatus 查询
// 则总是返回最新结果。
type StatusChannel struct {
	directory *ConnectionDirectory
	sink      Broadcaster
	events    *EventBus
	log       logger.Logger
	now       func() time.Time
}

// Connect 状态订阅者接入。
// 来源信息缺失时记为 "Unknown"，从不报错。
func (s *StatusChannel) Connect(id, userAgent, remoteAddr string) {
	if userAgent == "" {
		userAgent = unknownValue
	}
	if remoteAddr == "" {
		remoteAddr = unknownValue
	}

	s.directory.UpsertOnConnect(id, userAgent, remoteAddr)
	s.events.Publish(Event{Type: EventConnectionOpened, ConnectionID: id, Time: s.now()})

	s.log.Debug("status subscriber connected",
		zap.String("connection_id", id),
		zap.String("remote_addr", remoteAddr))

	s.broadcastStatus()
}

// Disconnect 状态订阅者断开。
// 推送无条件执行，即使 id 从未入库。
func (s *StatusChannel) Disconnect(id string) {
	s.directory.Remove(id)
	s.events.Publish(Event{Type: EventConnectionClosed, ConnectionID: id, Time: s.now()})

	s.log.Debug("status subscriber disconnected", zap.String("connection_id", id))

	s.broadcastStatus()
}

// GetStatus 拉取当前在线统计，每次重新计算
func (s *StatusChannel) GetStatus() PresenceSnapshot {
	return ComputePresence(s.directory.Snapshot(), s.now())
}

// RegisterChatConnection 聊天频道注册身份时的跨频道钩子，不触发推送
func (s *StatusChannel) RegisterChatConnection(id, username string) {
	s.directory.RegisterChatIdentity(id, username)
}

// RemoveChatConnection 聊天频道断开时的跨频道钩子，不触发推送
func (s *StatusChannel) RemoveChatConnection(id string) {
	s.directory.Remove(id)
}

// broadcastStatus 推送最新在线统计给全部状态订阅者
func (s *StatusChannel) broadcastStatus() {
	s.sink.SendToAll(EventStatusUpdated, s.GetStatus())
	s.events.Publish(Event{Type: EventBroadcastSent, Name: EventStatusUpdated, Time: s.now()})
}
