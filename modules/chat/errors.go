package chat

import "errors"

// Error codes reported to clients alongside the human-readable message.
const (
	CodeInvalidName     = "InvalidName"
	CodeNameTaken       = "NameTaken"
	CodeInvalidRoomName = "InvalidRoomName"
	CodeRoomExists      = "RoomExists"
	CodeNotLoggedIn     = "NotLoggedIn"
	CodeNoRoom          = "NoRoom"
	CodeEmptyMessage    = "EmptyMessage"
)

// Validation and precondition errors. The messages are shown to users
// verbatim, so they stay in full sentences.
var (
	ErrInvalidName     = errors.New("Username must be 2-20 characters and contain only letters, numbers, and underscores")
	ErrNameTaken       = errors.New("Username is already taken")
	ErrRoomNameLength  = errors.New("Room name must be 1-30 characters")
	ErrInvalidRoomName = errors.New("Room name must be 2-20 characters and contain only letters, numbers, and underscores")
	ErrRoomExists      = errors.New("Room already exists")
	ErrNotLoggedIn     = errors.New("Please login first")
	ErrNoRoom          = errors.New("You must be in a room to send messages")
	ErrEmptyMessage    = errors.New("Message cannot be empty")
)

// Code maps an error to its wire code. Unknown errors map to an empty
// string; callers treat those as internal failures.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidName):
		return CodeInvalidName
	case errors.Is(err, ErrNameTaken):
		return CodeNameTaken
	case errors.Is(err, ErrRoomNameLength), errors.Is(err, ErrInvalidRoomName):
		return CodeInvalidRoomName
	case errors.Is(err, ErrRoomExists):
		return CodeRoomExists
	case errors.Is(err, ErrNotLoggedIn):
		return CodeNotLoggedIn
	case errors.Is(err, ErrNoRoom):
		return CodeNoRoom
	case errors.Is(err, ErrEmptyMessage):
		return CodeEmptyMessage
	}
	return ""
}
