package chat

import (
	"regexp"
	"strings"
)

// Validation bounds.
const (
	maxInputLength    = 200
	minRoomNameLength = 1
	maxRoomNameLength = 30
)

// namePattern covers both usernames and created room names. Joining a
// room only enforces the length bounds; creating one requires the full
// pattern. The asymmetry is part of the user-facing contract.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,20}$`)

// Sanitize trims surrounding whitespace and truncates to 200 characters.
// Every client-supplied string passes through here before validation.
func Sanitize(input string) string {
	input = strings.TrimSpace(input)
	if runes := []rune(input); len(runes) > maxInputLength {
		return string(runes[:maxInputLength])
	}
	return input
}

// ValidateName checks a sanitized display name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

// ValidateRoomNameForJoin checks a sanitized room name at join time.
func ValidateRoomNameForJoin(room string) error {
	n := len([]rune(room))
	if n < minRoomNameLength || n > maxRoomNameLength {
		return ErrRoomNameLength
	}
	return nil
}

// ValidateRoomNameForCreate checks a sanitized room name at create time.
func ValidateRoomNameForCreate(room string) error {
	if !namePattern.MatchString(room) {
		return ErrInvalidRoomName
	}
	return nil
}
