package pulse

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokmz/pulse/pkg/logger"
)

// testFrame 测试侧的事件帧解码结构
type testFrame struct {
	Type      string            `json:"type"`
	Target    string            `json:"target"`
	Arguments []json.RawMessage `json:"arguments"`
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	cfg := DefaultAppConfig()
	cfg.Mode = "test"
	cfg.WS.AllowAllOrigins = true

	s, err := New(cfg, WithLogger(logger.Nop()))
	require.NoError(t, err)

	ts := httptest.NewServer(s.Engine())
	t.Cleanup(ts.Close)
	return s, ts
}

func dialHub(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func invoke(t *testing.T, conn *websocket.Conn, target string, args ...any) {
	t.Helper()

	frame := map[string]any{
		"type":      "invocation",
		"target":    target,
		"arguments": args,
		"timestamp": time.Now().Unix(),
	}
	require.NoError(t, conn.WriteJSON(frame))
}

// waitEvent 读取连接直到出现指定事件，其余事件丢弃
func waitEvent(t *testing.T, conn *websocket.Conn, target string) testFrame {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))

	for {
		var f testFrame
		err := conn.ReadJSON(&f)
		require.NoError(t, err, "waiting for %s", target)
		if f.Target == target {
			return f
		}
	}
}

func stringArg(t *testing.T, f testFrame, i int) string {
	t.Helper()
	require.Greater(t, len(f.Arguments), i)
	var s string
	require.NoError(t, json.Unmarshal(f.Arguments[i], &s))
	return s
}

func TestChatRegisterAndMessage(t *testing.T) {
	_, ts := newTestServer(t)

	alice := dialHub(t, ts, "/chathub")
	bob := dialHub(t, ts, "/chathub")

	invoke(t, alice, "RegisterUser", "alice")

	// 双方都看到加入通报
	for _, conn := range []*websocket.Conn{alice, bob} {
		f := waitEvent(t, conn, "UserJoined")
		assert.Equal(t, "System", stringArg(t, f, 0))
		assert.Equal(t, "alice har tilsluttet sig chatten", stringArg(t, f, 1))
	}

	invoke(t, alice, "SendMessage", "alice", "hej alle sammen")

	for _, conn := range []*websocket.Conn{alice, bob} {
		f := waitEvent(t, conn, "ReceiveMessage")
		assert.Equal(t, "alice", stringArg(t, f, 0))
		assert.Equal(t, "hej alle sammen", stringArg(t, f, 1))
		require.Len(t, f.Arguments, 3)
	}
}

func TestChatDisconnectBroadcast(t *testing.T) {
	_, ts := newTestServer(t)

	alice := dialHub(t, ts, "/chathub")
	bob := dialHub(t, ts, "/chathub")

	invoke(t, alice, "RegisterUser", "alice")
	waitEvent(t, bob, "UserJoined")

	require.NoError(t, alice.Close())

	f := waitEvent(t, bob, "UserLeft")
	assert.Equal(t, "System", stringArg(t, f, 0))
	assert.Equal(t, "alice har forladt chatten", stringArg(t, f, 1))
}

func TestChatGroupScoping(t *testing.T) {
	_, ts := newTestServer(t)

	alice := dialHub(t, ts, "/chathub")
	bob := dialHub(t, ts, "/chathub")

	invoke(t, alice, "JoinGroup", "golang")
	f := waitEvent(t, alice, "UserJoinedGroup")
	assert.Equal(t, "System", stringArg(t, f, 0))
	assert.Contains(t, stringArg(t, f, 1), "har tilsluttet sig gruppen 'golang'")

	invoke(t, alice, "SendMessageToGroup", "golang", "alice", "kun for gruppen")

	f = waitEvent(t, alice, "ReceiveMessage")
	assert.Equal(t, "kun for gruppen", stringArg(t, f, 1))

	// 组外连接收不到组消息：发一条全局消息作为屏障，
	// bob 的下一个 ReceiveMessage 必须是全局那条
	invoke(t, alice, "SendMessage", "alice", "til alle")
	f = waitEvent(t, bob, "ReceiveMessage")
	assert.Equal(t, "til alle", stringArg(t, f, 1))
}

func TestChatTypingExcludesSender(t *testing.T) {
	_, ts := newTestServer(t)

	alice := dialHub(t, ts, "/chathub")
	bob := dialHub(t, ts, "/chathub")

	invoke(t, alice, "SendTypingIndicator", "alice")

	f := waitEvent(t, bob, "UserTyping")
	assert.Equal(t, "alice", stringArg(t, f, 0))

	// 屏障：发送方不应收到自己的输入指示
	invoke(t, alice, "SendMessage", "alice", "barrier")
	f = waitEvent(t, alice, "ReceiveMessage")
	assert.Equal(t, "barrier", stringArg(t, f, 1))
}

func TestStatusHubLifecycle(t *testing.T) {
	s, ts := newTestServer(t)

	monitor := dialHub(t, ts, "/statushub")

	// 连接即推送快照
	f := waitEvent(t, monitor, "StatusUpdated")
	require.Len(t, f.Arguments, 1)

	var snap struct {
		TotalConnections  int      `json:"totalConnections"`
		ChatConnections   int      `json:"chatConnections"`
		StatusConnections int      `json:"statusConnections"`
		ActiveUsers       []string `json:"activeUsers"`
	}
	require.NoError(t, json.Unmarshal(f.Arguments[0], &snap))
	assert.Equal(t, 1, snap.TotalConnections)
	assert.Equal(t, 1, snap.StatusConnections)
	assert.Equal(t, 0, snap.ChatConnections)
	assert.Empty(t, snap.ActiveUsers)

	// 聊天注册后按需查询快照
	alice := dialHub(t, ts, "/chathub")
	invoke(t, alice, "RegisterUser", "alice")
	waitEvent(t, alice, "UserJoined")

	invoke(t, monitor, "GetStatusData")
	f = waitEvent(t, monitor, "StatusUpdated")
	require.NoError(t, json.Unmarshal(f.Arguments[0], &snap))
	assert.Equal(t, 2, snap.TotalConnections)
	assert.Equal(t, 1, snap.ChatConnections)
	assert.Equal(t, []string{"alice"}, snap.ActiveUsers)

	// 服务侧目录与快照一致
	assert.Equal(t, 2, s.Hub().Directory().Len())
}

func TestStatusUnknownTarget(t *testing.T) {
	_, ts := newTestServer(t)

	monitor := dialHub(t, ts, "/statushub")
	waitEvent(t, monitor, "StatusUpdated")

	invoke(t, monitor, "Nope")

	// 错误帧只回给调用方，Target 为出错的目标名
	f := waitEvent(t, monitor, "Nope")
	assert.Equal(t, "error", f.Type)
}

func TestWeatherForecast(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/weatherforecast")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var forecast []WeatherForecast
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&forecast))
	require.Len(t, forecast, 5)

	for _, day := range forecast {
		assert.GreaterOrEqual(t, day.TemperatureC, -20)
		assert.LessOrEqual(t, day.TemperatureC, 54)
		assert.Equal(t, 32+int(float64(day.TemperatureC)/0.5556), day.TemperatureF)
		assert.Contains(t, weatherSummaries, day.Summary)
		assert.NotEmpty(t, day.Date)
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
