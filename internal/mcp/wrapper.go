package mcp

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// ToolInfo describes one tool advertised by a server.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// Signature renders the tool as name(param: type, ...), parameters sorted.
func (t ToolInfo) Signature() string {
	var s struct {
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
	}
	_ = json.Unmarshal(t.InputSchema, &s)

	names := make([]string, 0, len(s.Properties))
	for n := range s.Properties {
		names = append(names, n)
	}
	sort.Strings(names)

	params := make([]string, 0, len(names))
	for _, n := range names {
		params = append(params, fmt.Sprintf("%s: %s", n, s.Properties[n].Type))
	}
	return t.Name + "(" + strings.Join(params, ", ") + ")"
}

func toToolInfo(t mcpgo.Tool) ToolInfo {
	info := ToolInfo{Name: t.Name, Description: t.Description}
	if len(t.RawInputSchema) > 0 {
		info.InputSchema = t.RawInputSchema
	} else if data, err := json.Marshal(t.InputSchema); err == nil {
		info.InputSchema = data
	}
	return info
}
