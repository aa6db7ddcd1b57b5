package dependency

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crystaldolphin/guardrail/internal/config"
	"github.com/crystaldolphin/guardrail/internal/config/tool"
	"github.com/crystaldolphin/guardrail/internal/providers"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, spec := range providers.PROVIDERS {
		if spec.EnvKey != "" {
			t.Setenv(spec.EnvKey, "")
		}
	}
}

func TestNew_WiresServices(t *testing.T) {
	clearProviderEnv(t)
	cfg := config.DefaultConfig()
	cfg.Providers.OpenRouter.APIKey = "sk-or-test"

	c, err := New(&cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, "openrouter/deepseek/deepseek-chat-v3-0324", c.Model())
	assert.IsType(t, &providers.OpenAIProvider{}, c.Provider())
	assert.Equal(t, []string{"category", "urgency", "summary"}, c.Contract().RequiredFields())
	assert.NotNil(t, c.Classifier())
	assert.NotNil(t, c.Dispatcher())
	assert.Equal(t, "weather", c.ToolServer().Server())
}

func TestNew_DeclaredTools(t *testing.T) {
	clearProviderEnv(t)
	cfg := config.DefaultConfig()
	cfg.Providers.OpenRouter.APIKey = "sk-or-test"
	cfg.Tools.Declared = []tool.DeclaredToolConfig{
		{Name: "lookup_order", Parameters: json.RawMessage(`{"type":"object","properties":{"id":{"type":"string"}}}`)},
	}

	_, err := New(&cfg, nil)
	require.NoError(t, err)

	cfg.Tools.Declared = append(cfg.Tools.Declared, tool.DeclaredToolConfig{Name: "get_alerts"})
	_, err = New(&cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tool")
}

func TestNew_NoAPIKey(t *testing.T) {
	clearProviderEnv(t)
	cfg := config.DefaultConfig()

	_, err := New(&cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API key configured")
}

func TestNew_BadContract(t *testing.T) {
	clearProviderEnv(t)
	cfg := config.DefaultConfig()
	cfg.Providers.OpenRouter.APIKey = "sk-or-test"
	cfg.Contract.Categories = nil

	_, err := New(&cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract config")
}

func TestNew_UnknownToolServer(t *testing.T) {
	clearProviderEnv(t)
	cfg := config.DefaultConfig()
	cfg.Providers.OpenRouter.APIKey = "sk-or-test"
	cfg.Tools.Server = "missing"

	_, err := New(&cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}
