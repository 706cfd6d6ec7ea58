package ws

import (
	"encoding/json"
	"fmt"
	"time"
)

// FrameType 帧类型
type FrameType string

const (
	// FrameInvocation 客户端发起的方法调用
	FrameInvocation FrameType = "invocation"
	// FrameEvent 服务端推送的事件
	FrameEvent FrameType = "event"
	// FrameError 服务端返回的调用错误
	FrameError FrameType = "error"
)

// Frame 入站帧。
//
// 调用参数按位置排列，各目标方法自行按序取参；
// Arguments 保持原始 JSON，由处理器决定解码类型。
type Frame struct {
	// Type 帧类型
	Type FrameType `json:"type"`

	// Target 目标方法或事件名（如 "sendMessage"）
	Target string `json:"target"`

	// Arguments 位置参数
	Arguments []json.RawMessage `json:"arguments,omitempty"`

	// Timestamp 时间戳
	Timestamp int64 `json:"timestamp"`
}

// StringArg 按位置取字符串参数
func (f *Frame) StringArg(i int) (string, error) {
	if i >= len(f.Arguments) {
		return "", fmt.Errorf("%w: need argument %d, got %d", ErrArgumentCount, i+1, len(f.Arguments))
	}
	var s string
	if err := json.Unmarshal(f.Arguments[i], &s); err != nil {
		return "", fmt.Errorf("%w: argument %d is not a string", ErrInvalidFrame, i)
	}
	return s, nil
}

// Arg 按位置解码任意类型参数
func (f *Frame) Arg(i int, v any) error {
	if i >= len(f.Arguments) {
		return fmt.Errorf("%w: need argument %d, got %d", ErrArgumentCount, i+1, len(f.Arguments))
	}
	if err := json.Unmarshal(f.Arguments[i], v); err != nil {
		return fmt.Errorf("%w: argument %d: %v", ErrInvalidFrame, i, err)
	}
	return nil
}

// EventFrame 出站事件帧
type EventFrame struct {
	// Type 固定为 "event"
	Type FrameType `json:"type"`

	// Target 事件名
	Target string `json:"target"`

	// Arguments 位置参数
	Arguments []any `json:"arguments"`

	// Timestamp 时间戳
	Timestamp int64 `json:"timestamp"`
}

// ErrorFrame 出站错误帧
type ErrorFrame struct {
	// Type 固定为 "error"
	Type FrameType `json:"type"`

	// Target 出错的调用目标
	Target string `json:"target,omitempty"`

	// Message 错误消息
	Message string `json:"message"`

	// Timestamp 时间戳
	Timestamp int64 `json:"timestamp"`
}

// NewEventFrame 创建事件帧
func NewEventFrame(target string, args ...any) *EventFrame {
	if args == nil {
		args = []any{}
	}
	return &EventFrame{
		Type:      FrameEvent,
		Target:    target,
		Arguments: args,
		Timestamp: time.Now().Unix(),
	}
}

// EncodeEventFrame 编码事件帧
func EncodeEventFrame(target string, args ...any) ([]byte, error) {
	return json.Marshal(NewEventFrame(target, args...))
}

// NewErrorFrame 创建错误帧
func NewErrorFrame(target, message string) *ErrorFrame {
	return &ErrorFrame{
		Type:      FrameError,
		Target:    target,
		Message:   message,
		Timestamp: time.Now().Unix(),
	}
}
