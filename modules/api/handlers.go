package api

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ArshathNooh/Chat-application/modules/broadcast"
	"github.com/ArshathNooh/Chat-application/modules/chat"
)

// handleWebSocket owns one client connection: register with the hub,
// process requests until the connection drops, then run the disconnect
// cleanup. A dropped connection is a normal lifecycle transition, not
// an error.
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	connID := uuid.New().String()
	m.hub.Register(broadcast.NewClient(connID, c))

	defer func() {
		m.chat.Disconnect(connID)
		m.hub.Unregister(connID)
		_ = c.Close()
	}()

	m.logger.Info("WebSocket connected", "connID", connID)

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				m.logger.Error("WebSocket read error", "connID", connID, "error", err)
			}
			break
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			m.hub.SendError(connID, "error", "Invalid message format")
			continue
		}
		m.dispatch(connID, frame)
	}

	m.logger.Info("WebSocket disconnected", "connID", connID)
}

// dispatch routes one request frame. Each request is handled to
// completion before the next frame is read from the connection.
func (m *APIModule) dispatch(connID string, frame Frame) {
	switch frame.Type {
	case RequestLogin:
		m.handleLogin(connID, frame.Payload)
	case RequestCreateRoom:
		m.handleCreateRoom(connID, frame.Payload)
	case RequestJoinRoom:
		m.handleJoinRoom(connID, frame.Payload)
	case RequestSendMessage:
		m.handleSendMessage(connID, frame.Payload)
	case RequestListRooms:
		m.handleListRooms(connID)
	default:
		m.hub.SendError(connID, frame.Type, "Unknown request type: "+frame.Type)
	}
}

func (m *APIModule) handleLogin(connID string, payload json.RawMessage) {
	var req LoginRequest
	if !m.decode(connID, RequestLogin, payload, &req) {
		return
	}

	res, err := m.chat.Login(connID, req.Name)
	if err != nil {
		m.hub.Send(connID, RequestLogin, failure(err))
		return
	}
	m.hub.Send(connID, RequestLogin, LoginResponse{
		Success: true,
		Name:    res.Name,
		Rooms:   res.Rooms,
	})
}

func (m *APIModule) handleCreateRoom(connID string, payload json.RawMessage) {
	var req RoomRequest
	if !m.decode(connID, RequestCreateRoom, payload, &req) {
		return
	}

	res, err := m.chat.CreateRoom(connID, req.Room)
	if err != nil {
		m.hub.Send(connID, RequestCreateRoom, failure(err))
		return
	}
	m.hub.Send(connID, RequestCreateRoom, CreateRoomResponse{
		Success: true,
		Room:    res.Room,
		Rooms:   res.Rooms,
	})
}

func (m *APIModule) handleJoinRoom(connID string, payload json.RawMessage) {
	var req RoomRequest
	if !m.decode(connID, RequestJoinRoom, payload, &req) {
		return
	}

	res, err := m.chat.JoinRoom(connID, req.Room)
	if err != nil {
		m.hub.Send(connID, RequestJoinRoom, failure(err))
		return
	}

	// Keep the hub's routing table in step with the directory before
	// acknowledging, so following broadcasts reach this client.
	m.hub.JoinRoom(connID, res.Room)

	m.hub.Send(connID, RequestJoinRoom, JoinRoomResponse{
		Success: true,
		Room:    res.Room,
		Members: res.Members,
		Rooms:   res.Rooms,
	})
}

func (m *APIModule) handleSendMessage(connID string, payload json.RawMessage) {
	var req SendMessageRequest
	if !m.decode(connID, RequestSendMessage, payload, &req) {
		return
	}

	if _, err := m.chat.SendMessage(connID, req.Text); err != nil {
		m.hub.Send(connID, RequestSendMessage, failure(err))
		return
	}
	m.hub.Send(connID, RequestSendMessage, SendMessageResponse{Success: true})
}

func (m *APIModule) handleListRooms(connID string) {
	m.hub.Send(connID, RequestListRooms, ListRoomsResponse{Rooms: m.chat.ListRooms()})
}

// decode unmarshals a request payload, reporting a failure frame on
// malformed input. An absent payload decodes as the zero request and
// falls through to validation.
func (m *APIModule) decode(connID, reqType string, payload json.RawMessage, dst any) bool {
	if len(payload) == 0 {
		return true
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		m.hub.SendError(connID, reqType, "Invalid request payload")
		return false
	}
	return true
}

func failure(err error) FailureResponse {
	return FailureResponse{Success: false, Code: chat.Code(err), Error: err.Error()}
}

// REST handlers

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
			"active_sessions":   m.chat.Coordinator().SessionCount(),
			"rooms":             len(m.chat.ListRooms()),
		},
	})
}

// listRoomsHandler handles GET /api/v1/rooms.
func (m *APIModule) listRoomsHandler(c *fiber.Ctx) error {
	return c.JSON(ListRoomsResponse{Rooms: m.chat.ListRooms()})
}

// statsHandler handles GET /api/v1/stats.
func (m *APIModule) statsHandler(c *fiber.Ctx) error {
	return c.JSON(m.stats.Snapshot())
}
