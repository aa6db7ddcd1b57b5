package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/crystaldolphin/guardrail/internal/extract"
)

// ToolCallIntent is the model's request to run a tool.
type ToolCallIntent struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

var nullJSON = []byte("null")

// parseIntent reads a tool call out of raw model text. A nil intent with a
// nil error means the text is a direct answer. Missing or null arguments
// become an empty map; arguments of any other non-object type are an error.
func parseIntent(raw string) (*ToolCallIntent, error) {
	candidate, ok := extract.Extract(raw)
	if !ok {
		return nil, nil
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil || payload == nil {
		return nil, nil
	}
	rawTool, ok := payload["tool"]
	if !ok {
		return nil, nil
	}
	var name string
	if err := json.Unmarshal(rawTool, &name); err != nil || strings.TrimSpace(name) == "" {
		return nil, nil
	}

	intent := &ToolCallIntent{Tool: name, Arguments: map[string]any{}}
	rawArgs, ok := payload["arguments"]
	if !ok || bytes.Equal(bytes.TrimSpace(rawArgs), nullJSON) {
		return intent, nil
	}
	var args map[string]any
	if err := json.Unmarshal(rawArgs, &args); err != nil {
		return intent, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	intent.Arguments = args
	return intent, nil
}
