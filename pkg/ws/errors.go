package ws

import "errors"

// 错误定义
var (
	// 连接相关错误
	ErrTooManyConnections = errors.New("ws: too many connections")
	ErrClientIDExists     = errors.New("ws: client id already exists")
	ErrClientNotFound     = errors.New("ws: client not found")
	ErrConnectionClosed   = errors.New("ws: connection closed")

	// 帧相关错误
	ErrHandlerNotFound = errors.New("ws: handler not found")
	ErrHandlerExists   = errors.New("ws: handler already exists")
	ErrRouterFrozen    = errors.New("ws: router is frozen")
	ErrInvalidFrame    = errors.New("ws: invalid frame format")
	ErrArgumentCount   = errors.New("ws: wrong argument count")
	ErrChannelFull     = errors.New("ws: send channel full")

	// 配置相关错误
	ErrInvalidConfig = errors.New("ws: invalid config")
)
