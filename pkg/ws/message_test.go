package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameDecode(t *testing.T) {
	raw := `{"type":"invocation","target":"sendMessage","arguments":["bob","hej"],"timestamp":1700000000}`

	var frame Frame
	require.NoError(t, json.Unmarshal([]byte(raw), &frame))

	assert.Equal(t, FrameInvocation, frame.Type)
	assert.Equal(t, "sendMessage", frame.Target)
	require.Len(t, frame.Arguments, 2)

	user, err := frame.StringArg(0)
	require.NoError(t, err)
	assert.Equal(t, "bob", user)

	text, err := frame.StringArg(1)
	require.NoError(t, err)
	assert.Equal(t, "hej", text)
}

func TestFrameStringArgErrors(t *testing.T) {
	frame := Frame{
		Target:    "registerUser",
		Arguments: []json.RawMessage{json.RawMessage(`42`)},
	}

	_, err := frame.StringArg(0)
	assert.ErrorIs(t, err, ErrInvalidFrame)

	_, err = frame.StringArg(1)
	assert.ErrorIs(t, err, ErrArgumentCount)
}

func TestFrameArgDecodesStruct(t *testing.T) {
	type payload struct {
		Group string `json:"group"`
	}

	frame := Frame{
		Arguments: []json.RawMessage{json.RawMessage(`{"group":"golang"}`)},
	}

	var p payload
	require.NoError(t, frame.Arg(0, &p))
	assert.Equal(t, "golang", p.Group)
}

func TestEncodeEventFrame(t *testing.T) {
	data, err := EncodeEventFrame("ReceiveMessage", "bob", "hej")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "event", decoded["type"])
	assert.Equal(t, "ReceiveMessage", decoded["target"])
	assert.Equal(t, []any{"bob", "hej"}, decoded["arguments"])
	assert.NotZero(t, decoded["timestamp"])
}

func TestEventFrameEmptyArguments(t *testing.T) {
	data, err := EncodeEventFrame("StatusUpdated")
	require.NoError(t, err)

	// 无参事件仍序列化出空数组，保持客户端解码一致
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{}, decoded["arguments"])
}

func TestErrorFrame(t *testing.T) {
	data, err := json.Marshal(NewErrorFrame("joinGroup", "handler not found"))
	require.NoError(t, err)

	var decoded ErrorFrame
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, FrameError, decoded.Type)
	assert.Equal(t, "joinGroup", decoded.Target)
	assert.Equal(t, "handler not found", decoded.Message)
}
