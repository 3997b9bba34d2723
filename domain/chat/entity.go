package chat

import "time"

// Session associates one live connection with a display name and,
// once a room has been joined, the room the user is currently in.
type Session struct {
	ConnID string `json:"conn_id"`
	Name   string `json:"name"`
	Room   string `json:"room,omitempty"`
}

// InRoom reports whether the session has joined a room.
func (s *Session) InRoom() bool {
	return s.Room != ""
}

// Message is a chat message in flight. Messages are not stored;
// a Message exists only for the duration of its broadcast.
type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
