package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no tags", "plain text", "plain text"},
		{"private span removed", "keep <private>secret</private> this", "keep  this"},
		{"multiline private span", "a <private>line\nline</private> b", "a  b"},
		{"injected context removed", "<mnemo-context>old memories</mnemo-context>question", "question"},
		{"both removed", "<mnemo-context>x</mnemo-context><private>y</private> z", "z"},
		{"whitespace trimmed", "  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clean(tt.input))
		})
	}
}

func TestIsEntirelyPrivate(t *testing.T) {
	assert.True(t, IsEntirelyPrivate("<private>all secret</private>"))
	assert.True(t, IsEntirelyPrivate("  <private>a</private> <private>b</private> "))
	assert.False(t, IsEntirelyPrivate("visible <private>hidden</private>"))
	assert.False(t, IsEntirelyPrivate("plain"))
}
