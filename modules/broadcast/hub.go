package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Conn is the slice of a WebSocket connection the hub writes to.
// *websocket.Conn satisfies it; tests use a recording fake.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// textMessage mirrors websocket.TextMessage without importing the
// websocket package here.
const textMessage = 1

// Frame is the envelope for every server-to-client message.
type Frame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Client is a connected WebSocket client tracked by the hub.
type Client struct {
	ID   string
	conn Conn
	mu   sync.Mutex // serializes writes to the conn
}

// NewClient wraps a connection for hub registration.
func NewClient(id string, conn Conn) *Client {
	return &Client{ID: id, conn: conn}
}

func (c *Client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(textMessage, data)
}

// broadcastJob is a queued room fan-out.
type broadcastJob struct {
	room      string // empty means all clients
	frame     Frame
	excluding []string
}

// Hub routes frames to connected clients. Registration and room
// membership are synchronous; broadcasts queue through a channel and
// are delivered fire-and-forget by the Run loop.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]*Client         // clientID -> client
	rooms     map[string]map[string]bool // room -> set of clientIDs
	broadcast chan broadcastJob
	done      chan struct{}
	logger    *slog.Logger
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		rooms:     make(map[string]map[string]bool),
		broadcast: make(chan broadcastJob, 256),
		done:      make(chan struct{}),
		logger:    slog.Default(),
	}
}

// Run delivers queued broadcasts until the context is cancelled, then
// closes every client connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAllClients()
			close(h.done)
			return
		case job := <-h.broadcast:
			h.deliver(job)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

// Unregister removes a client and any room membership it holds.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[clientID]; !ok {
		return
	}
	delete(h.clients, clientID)
	for room, ids := range h.rooms {
		if ids[clientID] {
			delete(ids, clientID)
			if len(ids) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}

// JoinRoom moves a client into a room, leaving any previous one.
func (h *Hub) JoinRoom(clientID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[clientID]; !ok {
		return
	}
	for name, ids := range h.rooms {
		if name != room && ids[clientID] {
			delete(ids, clientID)
			if len(ids) == 0 {
				delete(h.rooms, name)
			}
		}
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]bool)
	}
	h.rooms[room][clientID] = true
}

// Send writes one frame to one client synchronously. Request
// acknowledgments use this path.
func (h *Hub) Send(connID, event string, payload any) {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.writeFrame(client, Frame{Type: event, Payload: payload})
}

// SendError writes an error frame to one client.
func (h *Hub) SendError(connID, event, message string) {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.writeFrame(client, Frame{Type: event, Error: message})
}

// BroadcastToRoom queues a frame for every member of a room except the
// excluded client IDs.
func (h *Hub) BroadcastToRoom(room, event string, payload any, excluding ...string) {
	h.enqueue(broadcastJob{
		room:      room,
		frame:     Frame{Type: event, Payload: payload},
		excluding: excluding,
	})
}

// BroadcastAll queues a frame for every connected client.
func (h *Hub) BroadcastAll(event string, payload any, excluding ...string) {
	h.enqueue(broadcastJob{
		frame:     Frame{Type: event, Payload: payload},
		excluding: excluding,
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomClientCount returns the number of clients in a room.
func (h *Hub) RoomClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) enqueue(job broadcastJob) {
	select {
	case h.broadcast <- job:
	default:
		h.logger.Warn("Broadcast queue full, dropping frame", "type", job.frame.Type, "room", job.room)
	}
}

func (h *Hub) deliver(job broadcastJob) {
	excluded := make(map[string]bool, len(job.excluding))
	for _, id := range job.excluding {
		excluded[id] = true
	}

	h.mu.RLock()
	var targets []*Client
	if job.room == "" {
		for id, client := range h.clients {
			if !excluded[id] {
				targets = append(targets, client)
			}
		}
	} else {
		for id := range h.rooms[job.room] {
			if excluded[id] {
				continue
			}
			if client, ok := h.clients[id]; ok {
				targets = append(targets, client)
			}
		}
	}
	h.mu.RUnlock()

	data, err := json.Marshal(job.frame)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast frame", "error", err)
		return
	}
	for _, client := range targets {
		if err := client.write(data); err != nil {
			h.logger.Error("Failed to write to client", "clientID", client.ID, "error", err)
		}
	}
}

func (h *Hub) writeFrame(client *Client, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("Failed to marshal frame", "error", err)
		return
	}
	if err := client.write(data); err != nil {
		h.logger.Error("Failed to write to client", "clientID", client.ID, "error", err)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		_ = client.conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.rooms = make(map[string]map[string]bool)
}
