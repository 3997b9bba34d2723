package chat

import (
	"context"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"

	domain "github.com/ArshathNooh/Chat-application/domain/chat"
	"github.com/ArshathNooh/Chat-application/events"
)

// Module wraps the coordinator as a mono module. Room-scoped fan-out
// happens synchronously through the Transport; the module additionally
// publishes domain events on the event bus for other modules.
type Module struct {
	coord       *Coordinator
	eventBus    mono.EventBus
	logger      types.Logger
	defaultRoom string
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventBusAwareModule = (*Module)(nil)
	_ mono.EventEmitterModule  = (*Module)(nil)
)

// NewModule creates the chat module with its own coordinator instance.
func NewModule(defaultRoom string, transport Transport, logger types.Logger) *Module {
	return &Module{
		coord:       NewCoordinator(defaultRoom, transport),
		logger:      logger,
		defaultRoom: defaultRoom,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "chat"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.MessageSentV1.ToBase(),
		events.MemberJoinedV1.ToBase(),
		events.MemberLeftV1.ToBase(),
		events.RoomCreatedV1.ToBase(),
	}
}

// Start logs the seeded directory. The coordinator is ready as soon as
// it is constructed, so there is nothing to spin up.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Chat module started", "defaultRoom", m.defaultRoom)
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Chat module stopped", "sessions", m.coord.SessionCount())
	return nil
}

// Coordinator exposes the underlying coordinator for health reporting.
func (m *Module) Coordinator() *Coordinator {
	return m.coord
}

// Login registers a display name for a connection.
func (m *Module) Login(connID, name string) (*LoginResult, error) {
	res, err := m.coord.Login(connID, name)
	if err != nil {
		return nil, err
	}
	m.logger.Info("User logged in", "name", res.Name, "connID", connID)
	return res, nil
}

// CreateRoom inserts a new room and announces it on the event bus.
func (m *Module) CreateRoom(connID, room string) (*CreateRoomResult, error) {
	res, err := m.coord.CreateRoom(connID, room)
	if err != nil {
		return nil, err
	}

	createdBy := ""
	if session, ok := m.coord.Session(connID); ok {
		createdBy = session.Name
	}
	m.publishRoomCreated(events.RoomCreatedEvent{
		Room:      res.Room,
		Rooms:     res.Rooms,
		CreatedBy: createdBy,
		Timestamp: time.Now().UTC(),
	})

	m.logger.Info("Room created", "room", res.Room, "by", createdBy)
	return res, nil
}

// JoinRoom moves a session into a room.
func (m *Module) JoinRoom(connID, room string) (*JoinRoomResult, error) {
	res, err := m.coord.JoinRoom(connID, room)
	if err != nil {
		return nil, err
	}

	session, _ := m.coord.Session(connID)
	now := time.Now().UTC()
	if res.Previous != "" {
		m.publishMemberLeft(events.MemberLeftEvent{
			Room:      res.Previous,
			Name:      session.Name,
			ConnID:    connID,
			Timestamp: now,
		})
	}
	m.publishMemberJoined(events.MemberJoinedEvent{
		Room:      res.Room,
		Name:      session.Name,
		ConnID:    connID,
		Timestamp: now,
	})

	m.logger.Info("User joined room", "name", session.Name, "room", res.Room)
	return res, nil
}

// SendMessage broadcasts to the sender's room.
func (m *Module) SendMessage(connID, text string) (*domain.Message, error) {
	msg, err := m.coord.SendMessage(connID, text)
	if err != nil {
		return nil, err
	}

	m.publishMessageSent(events.MessageSentEvent{
		Room:      mustRoom(m.coord, connID),
		Sender:    msg.Sender,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
	})

	m.logger.Debug("Message sent", "sender", msg.Sender)
	return msg, nil
}

// ListRooms returns the room directory in insertion order.
func (m *Module) ListRooms() []string {
	return m.coord.ListRooms()
}

// Disconnect tears down a connection's session.
func (m *Module) Disconnect(connID string) {
	session, ok := m.coord.Disconnect(connID)
	if !ok {
		return
	}
	if session.InRoom() {
		m.publishMemberLeft(events.MemberLeftEvent{
			Room:      session.Room,
			Name:      session.Name,
			ConnID:    connID,
			Timestamp: time.Now().UTC(),
		})
	}
	m.logger.Info("User disconnected", "name", session.Name, "connID", connID)
}

func mustRoom(c *Coordinator, connID string) string {
	if session, ok := c.Session(connID); ok {
		return session.Room
	}
	return ""
}

// Event publication. A nil bus (unit tests construct the module without
// the framework) drops events; bus failures are logged, never surfaced,
// since broadcasts are best-effort.

func (m *Module) publishMessageSent(ev events.MessageSentEvent) {
	if m.eventBus == nil {
		return
	}
	if err := events.MessageSentV1.Publish(m.eventBus, ev, nil); err != nil {
		m.logger.Warn("Failed to publish MessageSent event", "error", err)
	}
}

func (m *Module) publishMemberJoined(ev events.MemberJoinedEvent) {
	if m.eventBus == nil {
		return
	}
	if err := events.MemberJoinedV1.Publish(m.eventBus, ev, nil); err != nil {
		m.logger.Warn("Failed to publish MemberJoined event", "error", err)
	}
}

func (m *Module) publishMemberLeft(ev events.MemberLeftEvent) {
	if m.eventBus == nil {
		return
	}
	if err := events.MemberLeftV1.Publish(m.eventBus, ev, nil); err != nil {
		m.logger.Warn("Failed to publish MemberLeft event", "error", err)
	}
}

func (m *Module) publishRoomCreated(ev events.RoomCreatedEvent) {
	if m.eventBus == nil {
		return
	}
	if err := events.RoomCreatedV1.Publish(m.eventBus, ev, nil); err != nil {
		m.logger.Warn("Failed to publish RoomCreated event", "error", err)
	}
}
