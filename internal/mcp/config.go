package mcp

import "fmt"

// ServerConfig holds the connection parameters for a single MCP server.
// Command selects the stdio transport; URL selects streamable HTTP.
type ServerConfig struct {
	Command string
	Args    []string
	Env     map[string]string
	URL     string
	Headers map[string]string
}

func (c ServerConfig) validate(name string) error {
	if c.Command == "" && c.URL == "" {
		return &ConfigError{Server: name}
	}
	return nil
}

// ConfigError reports a server entry with neither a command nor a url.
type ConfigError struct {
	Server string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("MCP server %q: no command or url configured", e.Server)
}
