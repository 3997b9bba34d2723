package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// MessageSentEvent is emitted when a message is broadcast to a room.
type MessageSentEvent struct {
	Room      string    `json:"room"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// MemberJoinedEvent is emitted when a user joins a room.
type MemberJoinedEvent struct {
	Room      string    `json:"room"`
	Name      string    `json:"name"`
	ConnID    string    `json:"conn_id"`
	Timestamp time.Time `json:"timestamp"`
}

// MemberLeftEvent is emitted when a user leaves a room, whether by
// joining another room or by disconnecting.
type MemberLeftEvent struct {
	Room      string    `json:"room"`
	Name      string    `json:"name"`
	ConnID    string    `json:"conn_id"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomCreatedEvent is emitted when a new room enters the directory.
type RoomCreatedEvent struct {
	Room      string    `json:"room"`
	Rooms     []string  `json:"rooms"`
	CreatedBy string    `json:"created_by"`
	Timestamp time.Time `json:"timestamp"`
}

// Event definitions for the chat domain.
var (
	MessageSentV1 = helper.EventDefinition[MessageSentEvent](
		"chat",
		"MessageSent",
		"v1",
	)

	MemberJoinedV1 = helper.EventDefinition[MemberJoinedEvent](
		"chat",
		"MemberJoined",
		"v1",
	)

	MemberLeftV1 = helper.EventDefinition[MemberLeftEvent](
		"chat",
		"MemberLeft",
		"v1",
	)

	RoomCreatedV1 = helper.EventDefinition[RoomCreatedEvent](
		"chat",
		"RoomCreated",
		"v1",
	)
)
