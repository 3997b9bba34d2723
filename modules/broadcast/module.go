package broadcast

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/ArshathNooh/Chat-application/events"
	"github.com/ArshathNooh/Chat-application/modules/chat"
)

// Module runs the WebSocket hub and consumes the events that address
// every connected client rather than a single room.
type Module struct {
	hub       *Hub
	logger    types.Logger
	cancelHub context.CancelFunc
}

// Compile-time interface checks. The hub is the chat coordinator's
// transport.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ chat.Transport             = (*Hub)(nil)
)

// NewModule creates a new broadcast module with its own hub.
func NewModule(logger types.Logger) *Module {
	return &Module{
		hub:    NewHub(),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "broadcast"
}

// Hub returns the WebSocket hub for the chat and api modules.
func (m *Module) Hub() *Hub {
	return m.hub
}

// Start launches the hub's delivery loop.
func (m *Module) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	m.logger.Info("Broadcast module started")
	return nil
}

// Stop drains the hub and closes every client connection.
func (m *Module) Stop(_ context.Context) error {
	clients := m.hub.ClientCount()
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
	}
	m.logger.Info("Broadcast module stopped", "clients", clients)
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// RegisterEventConsumers subscribes to directory-wide events. Room
// scoped fan-out reaches the hub directly through chat.Transport, so
// only RoomCreated is consumed here: every client's room picker gets
// refreshed, not just the members of one room.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.RoomCreatedV1, m.handleRoomCreated, m,
	); err != nil {
		return fmt.Errorf("failed to register RoomCreated consumer: %w", err)
	}
	m.logger.Info("Registered broadcast event consumers", "events", "RoomCreated")
	return nil
}

// RoomCreatedNotice is the payload of the roomCreated client event.
type RoomCreatedNotice struct {
	Room  string   `json:"room"`
	Rooms []string `json:"rooms"`
}

func (m *Module) handleRoomCreated(_ context.Context, event events.RoomCreatedEvent, _ *mono.Msg) error {
	m.hub.BroadcastAll("roomCreated", RoomCreatedNotice{
		Room:  event.Room,
		Rooms: event.Rooms,
	})
	return nil
}
