package stats

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/ArshathNooh/Chat-application/events"
)

// Module keeps process-lifetime counters for chat activity. It holds
// no chat state of its own; everything arrives over the event bus.
type Module struct {
	logger types.Logger

	startedAt    time.Time
	messagesSent atomic.Uint64
	memberJoins  atomic.Uint64
	memberLeaves atomic.Uint64
	roomsCreated atomic.Uint64
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	MessagesSent uint64    `json:"messages_sent"`
	MemberJoins  uint64    `json:"member_joins"`
	MemberLeaves uint64    `json:"member_leaves"`
	RoomsCreated uint64    `json:"rooms_created"`
	Since        time.Time `json:"since"`
}

// NewModule creates a new stats module.
func NewModule(logger types.Logger) *Module {
	return &Module{logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "stats"
}

// Start records the counting baseline.
func (m *Module) Start(_ context.Context) error {
	m.startedAt = time.Now().UTC()
	m.logger.Info("Stats module started")
	return nil
}

// Stop logs the final counters.
func (m *Module) Stop(_ context.Context) error {
	snap := m.Snapshot()
	m.logger.Info("Stats module stopped",
		"messagesSent", snap.MessagesSent,
		"memberJoins", snap.MemberJoins,
		"roomsCreated", snap.RoomsCreated)
	return nil
}

// Health returns the health status with the current counters.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	snap := m.Snapshot()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"messages_sent": snap.MessagesSent,
			"member_joins":  snap.MemberJoins,
			"member_leaves": snap.MemberLeaves,
			"rooms_created": snap.RoomsCreated,
		},
	}
}

// RegisterEventConsumers subscribes to every chat domain event.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.MessageSentV1, m.handleMessageSent, m,
	); err != nil {
		return fmt.Errorf("failed to register MessageSent consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(
		registry, events.MemberJoinedV1, m.handleMemberJoined, m,
	); err != nil {
		return fmt.Errorf("failed to register MemberJoined consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(
		registry, events.MemberLeftV1, m.handleMemberLeft, m,
	); err != nil {
		return fmt.Errorf("failed to register MemberLeft consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(
		registry, events.RoomCreatedV1, m.handleRoomCreated, m,
	); err != nil {
		return fmt.Errorf("failed to register RoomCreated consumer: %w", err)
	}
	m.logger.Info("Registered stats event consumers",
		"events", "MessageSent, MemberJoined, MemberLeft, RoomCreated")
	return nil
}

// Snapshot returns the current counters.
func (m *Module) Snapshot() Snapshot {
	return Snapshot{
		MessagesSent: m.messagesSent.Load(),
		MemberJoins:  m.memberJoins.Load(),
		MemberLeaves: m.memberLeaves.Load(),
		RoomsCreated: m.roomsCreated.Load(),
		Since:        m.startedAt,
	}
}

func (m *Module) handleMessageSent(_ context.Context, _ events.MessageSentEvent, _ *mono.Msg) error {
	m.messagesSent.Add(1)
	return nil
}

func (m *Module) handleMemberJoined(_ context.Context, _ events.MemberJoinedEvent, _ *mono.Msg) error {
	m.memberJoins.Add(1)
	return nil
}

func (m *Module) handleMemberLeft(_ context.Context, _ events.MemberLeftEvent, _ *mono.Msg) error {
	m.memberLeaves.Add(1)
	return nil
}

func (m *Module) handleRoomCreated(_ context.Context, _ events.RoomCreatedEvent, _ *mono.Msg) error {
	m.roomsCreated.Add(1)
	return nil
}
