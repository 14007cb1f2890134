package strings

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSingleLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"short value unchanged", "f:/etc/passwd", 20, "f:/etc/passwd"},
		{"exact width unchanged", "hello", 5, "hello"},
		{"long value cut", "r:/var/log/messages -> r:trojaned", 15, "r:/var/log/m..."},
		{"newlines joined", "first\nsecond", 20, "first second"},
		{"whitespace runs collapsed", "a \t\r\n  b", 20, "a b"},
		{"leading and trailing space dropped", "  padded  ", 20, "padded"},
		{"width clamped", "abcdef", 1, "a..."},
		{"empty", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SingleLine(tt.input, tt.width))
		})
	}
}

func TestSingleLine_CountsRunes(t *testing.T) {
	got := SingleLine("ÄÖÜäöüß", 5)
	assert.Equal(t, "ÄÖ...", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 5, utf8.RuneCountInString(got))
}
