package agent

import "time"

// AgentDefaults holds the model and loop settings shared by every command.
type AgentDefaults struct {
	Model              string  `json:"model"`
	MaxTokens          int     `json:"maxTokens"`
	Temperature        float64 `json:"temperature"` // tool dispatch only; classification always uses 0
	MaxRetries         int     `json:"maxRetries"`
	CallTimeoutSeconds int     `json:"callTimeoutSeconds"`
	Concurrency        int     `json:"concurrency"`
}

// CallTimeout returns the per-call timeout; 0 means none.
func (d AgentDefaults) CallTimeout() time.Duration {
	if d.CallTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(d.CallTimeoutSeconds) * time.Second
}

type AgentsConfig struct {
	Defaults AgentDefaults `json:"defaults"`
}

func defaultAgentDefaults() AgentDefaults {
	return AgentDefaults{
		Model:              "openrouter/deepseek/deepseek-chat-v3-0324",
		MaxTokens:          1024,
		Temperature:        0.7,
		MaxRetries:         2,
		CallTimeoutSeconds: 60,
		Concurrency:        4,
	}
}

func DefaultAgentsConfig() AgentsConfig {
	return AgentsConfig{Defaults: defaultAgentDefaults()}
}
