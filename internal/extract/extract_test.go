package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"prose around", `Sure! {"a": 1} thanks`, `{"a": 1}`, true},
		{"markdown fence", "```json\n{\"a\": {\"b\": 2}}\n```", `{"a": {"b": 2}}`, true},
		{"two objects over-capture", `{"a":1} and {"b":2}`, `{"a":1} and {"b":2}`, true},
		{"no braces", "plain answer", "", false},
		{"only opening", "{ oops", "", false},
		{"only closing", "oops }", "", false},
		{"reversed", "} then {", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
