package pulse

import (
	"github.com/tokmz/pulse/pkg/hub"
	"github.com/tokmz/pulse/pkg/ws"
)

// registerChatHandlers 注册聊天端点的调用处理器。
// 目标名与既有客户端的调用约定一致。
func (s *Server) registerChatHandlers() error {
	chat := s.hub.Chat()

	handlers := map[string]ws.Handler{
		"RegisterUser": func(c *ws.Client, f *ws.Frame) error {
			username, err := f.StringArg(0)
			if err != nil {
				return err
			}
			chat.RegisterUser(c.ID, username)
			return nil
		},
		"SendMessage": func(c *ws.Client, f *ws.Frame) error {
			user, err := f.StringArg(0)
			if err != nil {
				return err
			}
			message, err := f.StringArg(1)
			if err != nil {
				return err
			}
			chat.SendMessage(c.ID, user, message)
			return nil
		},
		"SendMessageToGroup": func(c *ws.Client, f *ws.Frame) error {
			group, err := f.StringArg(0)
			if err != nil {
				return err
			}
			user, err := f.StringArg(1)
			if err != nil {
				return err
			}
			message, err := f.StringArg(2)
			if err != nil {
				return err
			}
			chat.SendMessageToGroup(c.ID, group, user, message)
			return nil
		},
		"JoinGroup": func(c *ws.Client, f *ws.Frame) error {
			group, err := f.StringArg(0)
			if err != nil {
				return err
			}
			chat.JoinGroup(c.ID, group)
			return nil
		},
		"LeaveGroup": func(c *ws.Client, f *ws.Frame) error {
			group, err := f.StringArg(0)
			if err != nil {
				return err
			}
			chat.LeaveGroup(c.ID, group)
			return nil
		},
		"SendTypingIndicator": func(c *ws.Client, f *ws.Frame) error {
			user, err := f.StringArg(0)
			if err != nil {
				return err
			}
			chat.Typing(c.ID, user)
			return nil
		},
		"SendStoppedTypingIndicator": func(c *ws.Client, f *ws.Frame) error {
			user, err := f.StringArg(0)
			if err != nil {
				return err
			}
			chat.StoppedTyping(c.ID, user)
			return nil
		},
		"SendTypingIndicatorToGroup": func(c *ws.Client, f *ws.Frame) error {
			group, err := f.StringArg(0)
			if err != nil {
				return err
			}
			user, err := f.StringArg(1)
			if err != nil {
				return err
			}
			chat.TypingToGroup(c.ID, group, user)
			return nil
		},
		"SendStoppedTypingIndicatorToGroup": func(c *ws.Client, f *ws.Frame) error {
			group, err := f.StringArg(0)
			if err != nil {
				return err
			}
			user, err := f.StringArg(1)
			if err != nil {
				return err
			}
			chat.StoppedTypingToGroup(c.ID, group, user)
			return nil
		},
	}

	for target, h := range handlers {
		if err := s.chatWS.Register(target, h); err != nil {
			return err
		}
	}
	return nil
}

// registerStatusHandlers 注册状态端点的调用处理器
func (s *Server) registerStatusHandlers() error {
	status := s.hub.Status()

	// 两个目标同义，快照只回给调用方
	reply := func(c *ws.Client, f *ws.Frame) error {
		return c.SendEvent(hub.EventStatusUpdated, status.GetStatus())
	}

	if err := s.statusWS.Register("GetStatusData", reply); err != nil {
		return err
	}
	return s.statusWS.Register("GetLiveStatus", reply)
}
