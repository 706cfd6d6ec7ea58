// Package ws 提供单端点的 WebSocket 传输层。
//
// 每个 Manager 对应一个升级端点，持有独立的连接池与调用路由器；
// 广播范围以端点为界。业务层通过三个挂载点接入：
//
//   - OnConnect / OnDisconnect：连接生命周期回调
//   - Register：按 Target 注册调用处理器
//   - SetMemberships：组广播所需的成员只读视图
//
// 出站推送全部为事件帧，经各连接的有界队列异步写出，
// 队列满时丢弃该连接的此次推送并计入监控，不阻塞广播方。
//
// 基本用法：
//
//	m, err := ws.NewManager(ws.WithMaxConnections(1000))
//	if err != nil {
//	    return err
//	}
//	m.Register("sendMessage", func(c *ws.Client, f *ws.Frame) error {
//	    user, err := f.StringArg(0)
//	    ...
//	})
//	m.Freeze()
//
//	http.HandleFunc("/chathub", func(w http.ResponseWriter, r *http.Request) {
//	    _ = m.HandleUpgrade(w, r)
//	})
package ws
