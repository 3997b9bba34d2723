package chat

import (
	"strings"
	"sync"
	"time"

	domain "github.com/ArshathNooh/Chat-application/domain/chat"
)

// Event names pushed to room members.
const (
	EventMessage      = "message"
	EventMemberJoined = "memberJoined"
	EventMemberLeft   = "memberLeft"
)

// Transport is the narrow interface the coordinator needs from the
// real-time layer. The broadcast hub implements it; tests substitute
// a recording fake.
type Transport interface {
	Send(connID, event string, payload any)
	BroadcastToRoom(room, event string, payload any, excluding ...string)
}

// MemberEvent is the payload of memberJoined and memberLeft events.
type MemberEvent struct {
	Name string `json:"name"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Name  string   `json:"name"`
	Rooms []string `json:"rooms"`
}

// CreateRoomResult is returned on a successful room creation.
type CreateRoomResult struct {
	Room  string   `json:"room"`
	Rooms []string `json:"rooms"`
}

// JoinRoomResult is returned on a successful join.
type JoinRoomResult struct {
	Room    string   `json:"room"`
	Members []string `json:"members"`
	Rooms   []string `json:"rooms"`

	// Previous is the room the session left to join this one, if any.
	Previous string `json:"-"`
}

// Coordinator owns the connection registry and the room directory.
// All state lives in process memory and every operation applies
// atomically under one lock: an operation either fully mutates state
// and emits its broadcasts, or fully declines.
type Coordinator struct {
	mu        sync.Mutex
	transport Transport
	sessions  map[string]*domain.Session // connID -> session
	roomNames []string                   // directory, insertion order
	roomSet   map[string]bool
	members   map[string][]string // room -> display names, join order
}

// NewCoordinator creates a coordinator seeded with the default room.
// Rooms are never removed from the directory, so the default room is
// always offered even while empty.
func NewCoordinator(defaultRoom string, transport Transport) *Coordinator {
	c := &Coordinator{
		transport: transport,
		sessions:  make(map[string]*domain.Session),
		roomSet:   make(map[string]bool),
		members:   make(map[string][]string),
	}
	if defaultRoom != "" {
		c.addRoom(defaultRoom)
	}
	return c
}

// Login registers a display name for a connection. Names are unique
// case-insensitively among active sessions.
func (c *Coordinator) Login(connID, name string) (*LoginResult, error) {
	name = Sanitize(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for id, s := range c.sessions {
		if id != connID && strings.EqualFold(s.Name, name) {
			return nil, ErrNameTaken
		}
	}

	c.sessions[connID] = &domain.Session{ConnID: connID, Name: name}
	return &LoginResult{Name: name, Rooms: c.roomList()}, nil
}

// CreateRoom inserts a room into the directory with empty membership.
// Creation enforces the strict name pattern; joining does not.
func (c *Coordinator) CreateRoom(connID, room string) (*CreateRoomResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[connID]; !ok {
		return nil, ErrNotLoggedIn
	}

	room = Sanitize(room)
	if err := ValidateRoomNameForCreate(room); err != nil {
		return nil, err
	}
	if c.roomSet[room] {
		return nil, ErrRoomExists
	}

	c.addRoom(room)
	return &CreateRoomResult{Room: room, Rooms: c.roomList()}, nil
}

// JoinRoom moves a session into a room, creating the room on demand.
// The previous room, if any, is left first: its remaining members get a
// memberLeft event and its membership set is dropped once empty, while
// the room name itself stays in the directory.
func (c *Coordinator) JoinRoom(connID, room string) (*JoinRoomResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[connID]
	if !ok {
		return nil, ErrNotLoggedIn
	}

	room = Sanitize(room)
	if err := ValidateRoomNameForJoin(room); err != nil {
		return nil, err
	}

	previous := session.Room
	if previous != "" {
		c.removeMember(previous, session.Name)
		c.broadcast(previous, EventMemberLeft, MemberEvent{Name: session.Name}, connID)
	}

	if !c.roomSet[room] {
		c.addRoom(room)
	}
	session.Room = room
	c.members[room] = append(c.members[room], session.Name)

	c.broadcast(room, EventMemberJoined, MemberEvent{Name: session.Name}, connID)

	return &JoinRoomResult{
		Room:     room,
		Members:  c.memberList(room),
		Rooms:    c.roomList(),
		Previous: previous,
	}, nil
}

// SendMessage broadcasts a message to every member of the sender's
// room, sender included. Messages are transient; nothing is stored.
func (c *Coordinator) SendMessage(connID, text string) (*domain.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[connID]
	if !ok {
		return nil, ErrNotLoggedIn
	}
	if !session.InRoom() {
		return nil, ErrNoRoom
	}

	text = Sanitize(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	msg := &domain.Message{
		Sender:    session.Name,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	c.broadcast(session.Room, EventMessage, msg)
	return msg, nil
}

// ListRooms returns every known room name in insertion order.
func (c *Coordinator) ListRooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomList()
}

// Members returns the display names present in a room, in join order.
func (c *Coordinator) Members(room string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memberList(room)
}

// Session returns a copy of the session for a connection.
func (c *Coordinator) Session(connID string) (domain.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	session, ok := c.sessions[connID]
	if !ok {
		return domain.Session{}, false
	}
	return *session, true
}

// SessionCount returns the number of active sessions.
func (c *Coordinator) SessionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// Disconnect tears down a connection's session. It is idempotent: an
// unknown connection is a no-op. The removed session is returned so the
// caller can report which room, if any, was left.
func (c *Coordinator) Disconnect(connID string) (domain.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[connID]
	if !ok {
		return domain.Session{}, false
	}

	if session.InRoom() {
		c.removeMember(session.Room, session.Name)
		c.broadcast(session.Room, EventMemberLeft, MemberEvent{Name: session.Name}, connID)
	}
	delete(c.sessions, connID)
	return *session, true
}

// addRoom inserts a room name into the directory. Caller holds the lock.
func (c *Coordinator) addRoom(room string) {
	c.roomNames = append(c.roomNames, room)
	c.roomSet[room] = true
}

// removeMember drops a name from a room's membership, releasing the
// membership set once empty. The directory keeps the room name.
// Caller holds the lock.
func (c *Coordinator) removeMember(room, name string) {
	names := c.members[room]
	for i, n := range names {
		if n == name {
			c.members[room] = append(names[:i], names[i+1:]...)
			break
		}
	}
	if len(c.members[room]) == 0 {
		delete(c.members, room)
	}
}

func (c *Coordinator) roomList() []string {
	out := make([]string, len(c.roomNames))
	copy(out, c.roomNames)
	return out
}

func (c *Coordinator) memberList(room string) []string {
	out := make([]string, len(c.members[room]))
	copy(out, c.members[room])
	return out
}

func (c *Coordinator) broadcast(room, event string, payload any, excluding ...string) {
	if c.transport == nil {
		return
	}
	c.transport.BroadcastToRoom(room, event, payload, excluding...)
}
