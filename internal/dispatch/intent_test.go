package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantTool string
		wantArgs map[string]any
	}{
		{"plain", `{"tool":"get_alerts","arguments":{"state":"CA"}}`, "get_alerts", map[string]any{"state": "CA"}},
		{"wrapped in prose", "Calling now:\n```json\n{\"tool\":\"get_alerts\",\"arguments\":{\"state\":\"NY\"}}\n```", "get_alerts", map[string]any{"state": "NY"}},
		{"no arguments", `{"tool":"list"}`, "list", map[string]any{}},
		{"null arguments", `{"tool":"list","arguments":null}`, "list", map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := parseIntent(tt.raw)
			require.NoError(t, err)
			require.NotNil(t, intent)
			assert.Equal(t, tt.wantTool, intent.Tool)
			assert.Equal(t, tt.wantArgs, intent.Arguments)
		})
	}
}

func TestParseIntent_DirectAnswer(t *testing.T) {
	for _, raw := range []string{"", "just text", "} backwards {", `{"answer": "x"}`, `{"tool": null}`, `[1,2]`} {
		intent, err := parseIntent(raw)
		assert.NoError(t, err, raw)
		assert.Nil(t, intent, raw)
	}
}

func TestParseIntent_BadArguments(t *testing.T) {
	intent, err := parseIntent(`{"tool":"get_alerts","arguments":"CA"}`)
	require.Error(t, err)
	require.NotNil(t, intent)
	assert.Equal(t, "get_alerts", intent.Tool)
}
