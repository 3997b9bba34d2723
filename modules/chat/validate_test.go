package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims whitespace", input: "  hello  ", want: "hello"},
		{name: "trims tabs and newlines", input: "\t hi \n", want: "hi"},
		{name: "truncates to 200", input: strings.Repeat("a", 300), want: strings.Repeat("a", 200)},
		{name: "keeps short input", input: "ok", want: "ok"},
		{name: "whitespace only becomes empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitize_MultibyteTruncation(t *testing.T) {
	input := strings.Repeat("é", 250)
	got := Sanitize(input)
	require.Equal(t, 200, len([]rune(got)))
	require.Equal(t, strings.Repeat("é", 200), got)
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "letters", input: "alice", valid: true},
		{name: "mixed case digits underscore", input: "Bob_99", valid: true},
		{name: "minimum length", input: "ab", valid: true},
		{name: "maximum length", input: strings.Repeat("a", 20), valid: true},
		{name: "one character", input: "a", valid: false},
		{name: "twenty one characters", input: strings.Repeat("a", 21), valid: false},
		{name: "space", input: "a b", valid: false},
		{name: "hyphen", input: "a-b", valid: false},
		{name: "empty", input: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidName)
			}
		})
	}
}

func TestValidateRoomNameForJoin(t *testing.T) {
	require.NoError(t, ValidateRoomNameForJoin("x"))
	require.NoError(t, ValidateRoomNameForJoin("any chars allowed!"))
	require.NoError(t, ValidateRoomNameForJoin(strings.Repeat("r", 30)))
	require.ErrorIs(t, ValidateRoomNameForJoin(""), ErrRoomNameLength)
	require.ErrorIs(t, ValidateRoomNameForJoin(strings.Repeat("r", 31)), ErrRoomNameLength)
}

func TestValidateRoomNameForCreate(t *testing.T) {
	require.NoError(t, ValidateRoomNameForCreate("Team1"))
	require.ErrorIs(t, ValidateRoomNameForCreate("a b"), ErrInvalidRoomName)
	require.ErrorIs(t, ValidateRoomNameForCreate("x"), ErrInvalidRoomName)
	require.ErrorIs(t, ValidateRoomNameForCreate(strings.Repeat("r", 21)), ErrInvalidRoomName)
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{err: ErrInvalidName, code: CodeInvalidName},
		{err: ErrNameTaken, code: CodeNameTaken},
		{err: ErrRoomNameLength, code: CodeInvalidRoomName},
		{err: ErrInvalidRoomName, code: CodeInvalidRoomName},
		{err: ErrRoomExists, code: CodeRoomExists},
		{err: ErrNotLoggedIn, code: CodeNotLoggedIn},
		{err: ErrNoRoom, code: CodeNoRoom},
		{err: ErrEmptyMessage, code: CodeEmptyMessage},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			require.Equal(t, tt.code, Code(tt.err))
		})
	}
}
