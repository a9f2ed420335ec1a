package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsernameValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "empty", input: "", want: false},
		{name: "two chars", input: "ab", want: false},
		{name: "three chars", input: "abc", want: true},
		{name: "spaces count", input: "a b", want: true},
		{name: "symbols allowed", input: "!!!", want: true},
		{name: "multibyte runes", input: "äöü", want: true},
		{name: "two multibyte runes", input: "äö", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UsernameValid(tt.input))
		})
	}
}
