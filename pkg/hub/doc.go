// Package hub 实现聊天与状态监控两个实时频道的核心逻辑。
//
// 核心组件：
//   - ConnectionDirectory：连接元数据目录，connectionId -> ConnectionRecord，
//     单一逻辑锁保证快照一致性
//   - GroupMembership：组成员索引，组名 -> 连接 ID 集合
//   - ChatChannel：聊天频道（注册、消息、分组、输入提示）
//   - StatusChannel：状态频道（连接监控、在线统计推送）
//   - Broadcaster：出站广播接口，由传输层实现，全部 fire-and-forget
//
// 两个频道共享同一个 ConnectionDirectory 实例（构造时注入，不使用包级
// 全局状态）。状态数据流单向：连接/断开 -> 目录变更 -> 在线统计计算 ->
// 推送给状态订阅者。聊天数据流为无应答广播，只受组成员关系约束。
//
// 本包不做持久化、不做鉴权、不提供投递保证（尽力而为、至多一次），
// 也不涉及跨进程扩展。
//
// 基本用法：
//
//	h := hub.New(chatSink, statusSink)
//	defer h.Close()
//
//	h.Status().Connect(id, userAgent, remoteAddr)
//	h.Chat().RegisterUser(id, "alice")
//	h.Chat().SendMessage(id, "alice", "hej")
package hub
