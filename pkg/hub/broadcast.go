package hub

// 出站事件名。与既有 SignalR 客户端约定一致，改名会破坏兼容性。
const (
	EventUserJoined        = "UserJoined"
	EventUserLeft          = "UserLeft"
	EventReceiveMessage    = "ReceiveMessage"
	EventUserJoinedGroup   = "UserJoinedGroup"
	EventUserLeftGroup     = "UserLeftGroup"
	EventUserTyping        = "UserTyping"
	EventUserStoppedTyping = "UserStoppedTyping"
	EventStatusUpdated     = "StatusUpdated"
)

// systemSender 系统通知的发送者标识
const systemSender = "System"

// 系统通知文案。丹麦语文案同样属于客户端兼容面，不做翻译。
const (
	textUserJoined      = "%s har tilsluttet sig chatten"
	textUserLeft        = "%s har forladt chatten"
	textUserJoinedGroup = "%s har tilsluttet sig gruppen '%s'"
	textUserLeftGroup   = "%s har forladt gruppen '%s'"
)

// Broadcaster 出站广播接口，由传输层实现。
//
// 所有方法都是 fire-and-forget：调用方不阻塞等待投递结果，单个接收方
// 的失败或缓慢不影响其他接收方。参数按位置序列化为事件负载。
type Broadcaster interface {
	// SendToAll 广播给全部连接
	SendToAll(event string, args ...any)
	// SendToGroup 广播给指定组的成员
	SendToGroup(group string, event string, args ...any)
	// SendToGroupExcept 广播给指定组中除 exclude 外的成员
	SendToGroupExcept(group string, exclude string, event string, args ...any)
	// SendToOthers 广播给除 exclude 外的全部连接
	SendToOthers(exclude string, event string, args ...any)
}
