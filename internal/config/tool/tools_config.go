package tool

import "encoding/json"

// DeclaredToolConfig adds a tool to the dispatch catalog. Parameters is a
// JSON Schema object; empty means no parameters.
type DeclaredToolConfig struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ToolsConfig groups all tool-level settings.
type ToolsConfig struct {
	MCPServers map[string]MCPServerConfig `json:"mcpServers"`
	Server     string                     `json:"server"` // the mcpServers entry dispatch talks to
	Strict     bool                       `json:"strict"`
	Declared   []DeclaredToolConfig       `json:"declared,omitempty"`
}

// DefaultServer is the bundled weather server.
const DefaultServer = "weather"

func DefaultToolConfigs() ToolsConfig {
	return ToolsConfig{
		MCPServers: map[string]MCPServerConfig{
			DefaultServer: {Command: "python", Args: []string{"weather.py"}},
		},
		Server: DefaultServer,
	}
}
