// Package config defines the configuration schema for guardrail.
//
// JSON keys use camelCase; the file lives at ~/.guardrail/config.json.
package config

import (
	"errors"
	"fmt"

	"github.com/crystaldolphin/guardrail/internal/config/agent"
	"github.com/crystaldolphin/guardrail/internal/config/provider"
	"github.com/crystaldolphin/guardrail/internal/config/tool"
)

// ContractConfig declares the classification contract.
type ContractConfig struct {
	Categories    []string `json:"categories"`
	Urgency       []string `json:"urgency"`
	SummaryMaxLen int      `json:"summaryMaxLen"`
}

func defaultContractConfig() ContractConfig {
	return ContractConfig{
		Categories:    []string{"payment", "technical", "account", "other"},
		Urgency:       []string{"low", "medium", "high"},
		SummaryMaxLen: 20,
	}
}

// Config is the root configuration object.
type Config struct {
	Agents    agent.AgentsConfig       `json:"agents"`
	Providers provider.ProvidersConfig `json:"providers"`
	Contract  ContractConfig           `json:"contract"`
	Tools     tool.ToolsConfig         `json:"tools"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Agents:    agent.DefaultAgentsConfig(),
		Providers: provider.DefaultProvidersConfig(),
		Contract:  defaultContractConfig(),
		Tools:     tool.DefaultToolConfigs(),
	}
}

// ProviderByName returns a pointer to the ProviderConfig field matching the
// given registry name (e.g. "openrouter", "anthropic"). Returns nil if unknown.
func (c *Config) ProviderByName(name string) *provider.ProviderConfig {
	return c.Providers.ByName(name)
}

// DispatchServer returns the name and settings of the MCP server used by
// tool dispatch.
func (c *Config) DispatchServer() (string, tool.MCPServerConfig, error) {
	name := c.Tools.Server
	if name == "" {
		name = tool.DefaultServer
	}
	srv, ok := c.Tools.MCPServers[name]
	if !ok {
		return "", tool.MCPServerConfig{}, fmt.Errorf("tools.server %q is not in tools.mcpServers", name)
	}
	return name, srv, nil
}

// Validate rejects values no command can run with.
func (c *Config) Validate() error {
	d := c.Agents.Defaults
	var errs []error
	if d.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("agents.defaults.maxRetries must be >= 0, got %d", d.MaxRetries))
	}
	if d.CallTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("agents.defaults.callTimeoutSeconds must be >= 0, got %d", d.CallTimeoutSeconds))
	}
	if d.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("agents.defaults.concurrency must be >= 0, got %d", d.Concurrency))
	}
	if c.Contract.SummaryMaxLen <= 0 {
		errs = append(errs, fmt.Errorf("contract.summaryMaxLen must be > 0, got %d", c.Contract.SummaryMaxLen))
	}
	return errors.Join(errs...)
}
