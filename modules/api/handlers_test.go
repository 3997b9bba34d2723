package api

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/require"

	"github.com/ArshathNooh/Chat-application/config"
	"github.com/ArshathNooh/Chat-application/modules/broadcast"
	"github.com/ArshathNooh/Chat-application/modules/chat"
	"github.com/ArshathNooh/Chat-application/modules/stats"
)

// mockLogger implements types.Logger for testing.
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

// fakeConn records written frames in place of a WebSocket connection.
type fakeConn struct {
	mu     sync.Mutex
	frames []recordedFrame
}

type recordedFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Error   string          `json:"error"`
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var frame recordedFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return err
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeConn) Close() error { return nil }

func (f *fakeConn) received() []recordedFrame {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedFrame, len(f.frames))
	copy(out, f.frames)
	return out
}

func (f *fakeConn) last(t *testing.T) recordedFrame {
	t.Helper()
	frames := f.received()
	require.NotEmpty(t, frames)
	return frames[len(frames)-1]
}

func (f *fakeConn) countOf(frameType string) int {
	n := 0
	for _, frame := range f.received() {
		if frame.Type == frameType {
			n++
		}
	}
	return n
}

func newTestModule() (*APIModule, *broadcast.Hub) {
	logger := &mockLogger{}
	broadcastModule := broadcast.NewModule(logger)
	hub := broadcastModule.Hub()
	chatModule := chat.NewModule("general", hub, logger)
	cfg := config.Config{Port: 3000, DefaultRoom: "general"}
	return NewModule(cfg, chatModule, hub, stats.NewModule(logger), logger), hub
}

func connect(hub *broadcast.Hub, connID string) *fakeConn {
	conn := &fakeConn{}
	hub.Register(broadcast.NewClient(connID, conn))
	return conn
}

func request(m *APIModule, connID, reqType, payload string) {
	frame := Frame{Type: reqType}
	if payload != "" {
		frame.Payload = json.RawMessage(payload)
	}
	m.dispatch(connID, frame)
}

func TestDispatch_Login(t *testing.T) {
	m, hub := newTestModule()
	conn := connect(hub, "c1")

	request(m, "c1", RequestLogin, `{"name":"alice"}`)

	ack := conn.last(t)
	require.Equal(t, RequestLogin, ack.Type)
	require.JSONEq(t, `{"success":true,"name":"alice","rooms":["general"]}`, string(ack.Payload))
}

func TestDispatch_Login_NameTaken(t *testing.T) {
	m, hub := newTestModule()
	connect(hub, "c1")
	b := connect(hub, "c2")

	request(m, "c1", RequestLogin, `{"name":"alice"}`)
	request(m, "c2", RequestLogin, `{"name":"Alice"}`)

	ack := b.last(t)
	var resp FailureResponse
	require.NoError(t, json.Unmarshal(ack.Payload, &resp))
	require.False(t, resp.Success)
	require.Equal(t, chat.CodeNameTaken, resp.Code)
	require.Equal(t, chat.ErrNameTaken.Error(), resp.Error)
}

func TestDispatch_Login_InvalidName(t *testing.T) {
	m, hub := newTestModule()
	conn := connect(hub, "c1")

	request(m, "c1", RequestLogin, `{"name":"a b"}`)

	var resp FailureResponse
	require.NoError(t, json.Unmarshal(conn.last(t).Payload, &resp))
	require.False(t, resp.Success)
	require.Equal(t, chat.CodeInvalidName, resp.Code)
}

func TestDispatch_JoinRoom(t *testing.T) {
	m, hub := newTestModule()
	conn := connect(hub, "c1")

	request(m, "c1", RequestLogin, `{"name":"bob"}`)
	request(m, "c1", RequestJoinRoom, `{"room":"general"}`)

	ack := conn.last(t)
	require.Equal(t, RequestJoinRoom, ack.Type)
	require.JSONEq(t, `{"success":true,"room":"general","members":["bob"],"rooms":["general"]}`, string(ack.Payload))
	require.Equal(t, 1, hub.RoomClientCount("general"))
}

func TestDispatch_JoinRoom_RequiresLogin(t *testing.T) {
	m, hub := newTestModule()
	conn := connect(hub, "c1")

	request(m, "c1", RequestJoinRoom, `{"room":"general"}`)

	var resp FailureResponse
	require.NoError(t, json.Unmarshal(conn.last(t).Payload, &resp))
	require.Equal(t, chat.CodeNotLoggedIn, resp.Code)
	require.Equal(t, 0, hub.RoomClientCount("general"))
}

func TestDispatch_CreateRoom(t *testing.T) {
	m, hub := newTestModule()
	conn := connect(hub, "c1")
	request(m, "c1", RequestLogin, `{"name":"alice"}`)

	request(m, "c1", RequestCreateRoom, `{"room":"Team1"}`)
	require.JSONEq(t, `{"success":true,"room":"Team1","rooms":["general","Team1"]}`, string(conn.last(t).Payload))

	request(m, "c1", RequestCreateRoom, `{"room":"Team1"}`)
	var resp FailureResponse
	require.NoError(t, json.Unmarshal(conn.last(t).Payload, &resp))
	require.Equal(t, chat.CodeRoomExists, resp.Code)
}

func TestDispatch_SendMessage(t *testing.T) {
	m, hub := newTestModule()
	conn := connect(hub, "c1")
	request(m, "c1", RequestLogin, `{"name":"bob"}`)

	// Not in a room yet.
	request(m, "c1", RequestSendMessage, `{"text":"hi"}`)
	var resp FailureResponse
	require.NoError(t, json.Unmarshal(conn.last(t).Payload, &resp))
	require.Equal(t, chat.CodeNoRoom, resp.Code)

	request(m, "c1", RequestJoinRoom, `{"room":"general"}`)
	request(m, "c1", RequestSendMessage, `{"text":"hi"}`)
	require.JSONEq(t, `{"success":true}`, string(conn.last(t).Payload))

	// Whitespace only declines with no ack success.
	request(m, "c1", RequestSendMessage, `{"text":"   "}`)
	require.NoError(t, json.Unmarshal(conn.last(t).Payload, &resp))
	require.Equal(t, chat.CodeEmptyMessage, resp.Code)
}

func TestDispatch_ListRooms(t *testing.T) {
	m, hub := newTestModule()
	conn := connect(hub, "c1")

	// listRooms needs no session and no payload.
	request(m, "c1", RequestListRooms, "")

	ack := conn.last(t)
	require.Equal(t, RequestListRooms, ack.Type)
	require.JSONEq(t, `{"rooms":["general"]}`, string(ack.Payload))
}

func TestDispatch_UnknownType(t *testing.T) {
	m, hub := newTestModule()
	conn := connect(hub, "c1")

	request(m, "c1", "teleport", "")

	ack := conn.last(t)
	require.Equal(t, "teleport", ack.Type)
	require.Contains(t, ack.Error, "Unknown request type")
}

func TestDispatch_MalformedPayload(t *testing.T) {
	m, hub := newTestModule()
	conn := connect(hub, "c1")

	request(m, "c1", RequestLogin, `{"name":42}`)

	ack := conn.last(t)
	require.Equal(t, RequestLogin, ack.Type)
	require.Equal(t, "Invalid request payload", ack.Error)
}

// Two clients share a room end to end: the hub delivery loop runs and
// both see the message; the remaining client sees the leave.
func TestProtocol_TwoClientsInLobby(t *testing.T) {
	m, hub := newTestModule()

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	defer func() {
		cancel()
		hub.Wait()
	}()

	a := connect(hub, "conn-a")
	b := connect(hub, "conn-b")

	request(m, "conn-a", RequestLogin, `{"name":"a"}`)
	request(m, "conn-a", RequestJoinRoom, `{"room":"lobby"}`)
	request(m, "conn-b", RequestLogin, `{"name":"b"}`)
	request(m, "conn-b", RequestJoinRoom, `{"room":"lobby"}`)

	// The earlier member hears about the join; the joiner does not.
	require.Eventually(t, func() bool {
		return a.countOf(chat.EventMemberJoined) == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, 0, b.countOf(chat.EventMemberJoined))

	request(m, "conn-a", RequestSendMessage, `{"text":"hello"}`)

	require.Eventually(t, func() bool {
		return a.countOf(chat.EventMessage) == 1 && b.countOf(chat.EventMessage) == 1
	}, time.Second, 5*time.Millisecond)

	var msg struct {
		Sender    string    `json:"sender"`
		Text      string    `json:"text"`
		Timestamp time.Time `json:"timestamp"`
	}
	for _, frame := range b.received() {
		if frame.Type == chat.EventMessage {
			require.NoError(t, json.Unmarshal(frame.Payload, &msg))
		}
	}
	require.Equal(t, "a", msg.Sender)
	require.Equal(t, "hello", msg.Text)
	require.False(t, msg.Timestamp.IsZero())

	// b drops; a is notified.
	m.chat.Disconnect("conn-b")
	hub.Unregister("conn-b")

	require.Eventually(t, func() bool {
		return a.countOf(chat.EventMemberLeft) == 1
	}, time.Second, 5*time.Millisecond)
}
