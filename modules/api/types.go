package api

import "encoding/json"

// Frame is the envelope for every client-to-server request. The server
// answers each request with one frame of the same type; that frame is
// the acknowledgment (clients issue requests serially).
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Request types accepted over the WebSocket.
const (
	RequestLogin       = "login"
	RequestCreateRoom  = "createRoom"
	RequestJoinRoom    = "joinRoom"
	RequestSendMessage = "sendMessage"
	RequestListRooms   = "listRooms"
)

// LoginRequest is the payload of a login request.
type LoginRequest struct {
	Name string `json:"name"`
}

// RoomRequest is the payload of createRoom and joinRoom requests.
type RoomRequest struct {
	Room string `json:"room"`
}

// SendMessageRequest is the payload of a sendMessage request.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// LoginResponse acknowledges a successful login.
type LoginResponse struct {
	Success bool     `json:"success"`
	Name    string   `json:"name"`
	Rooms   []string `json:"rooms"`
}

// CreateRoomResponse acknowledges a successful room creation.
type CreateRoomResponse struct {
	Success bool     `json:"success"`
	Room    string   `json:"room"`
	Rooms   []string `json:"rooms"`
}

// JoinRoomResponse acknowledges a successful join.
type JoinRoomResponse struct {
	Success bool     `json:"success"`
	Room    string   `json:"room"`
	Members []string `json:"members"`
	Rooms   []string `json:"rooms"`
}

// SendMessageResponse acknowledges a successful send.
type SendMessageResponse struct {
	Success bool `json:"success"`
}

// ListRoomsResponse answers a listRooms request.
type ListRoomsResponse struct {
	Rooms []string `json:"rooms"`
}

// FailureResponse acknowledges a declined request.
type FailureResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error"`
}

// ErrorResponse is the REST error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the REST health check body.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
