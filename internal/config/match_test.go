package config

import (
	"testing"

	"github.com/crystaldolphin/guardrail/internal/providers"
)

func TestMatchProvider_EnvKeyFallback(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-env")

	cfg := DefaultConfig()
	got := cfg.MatchProvider("")
	if got.Name != "openrouter" {
		t.Fatalf("expected openrouter, got %q", got.Name)
	}
	if got.Provider.APIKey != "sk-or-env" {
		t.Errorf("expected key from env, got %q", got.Provider.APIKey)
	}
	if cfg.Providers.OpenRouter.APIKey != "" {
		t.Error("matching must not write the env key back into the config")
	}
	if base := cfg.GetAPIBase(""); base != "https://openrouter.ai/api/v1" {
		t.Errorf("expected gateway default base, got %q", base)
	}
}

func TestMatchProvider_ConfigKeyWins(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "from-env")

	cfg := DefaultConfig()
	cfg.Providers.DeepSeek.APIKey = "from-file"
	got := cfg.MatchProvider("deepseek/deepseek-chat")
	if got.Name != "deepseek" || got.Provider.APIKey != "from-file" {
		t.Errorf("unexpected match %q %+v", got.Name, got.Provider)
	}
}

func TestMatchProvider_Keyword(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.Anthropic.APIKey = "ak"
	if got := cfg.GetProviderName("claude-3-5-sonnet-latest"); got != "anthropic" {
		t.Errorf("expected anthropic, got %q", got)
	}
}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, spec := range providers.PROVIDERS {
		if spec.EnvKey != "" {
			t.Setenv(spec.EnvKey, "")
		}
	}
}

func TestMatchProvider_Fallback(t *testing.T) {
	clearProviderEnv(t)
	cfg := DefaultConfig()
	cfg.Providers.Groq.APIKey = "gk"
	if got := cfg.GetProviderName("some-unknown-model"); got != "groq" {
		t.Errorf("expected groq fallback, got %q", got)
	}
	if got := cfg.GetAPIKey("some-unknown-model"); got != "gk" {
		t.Errorf("expected groq key, got %q", got)
	}
}

func TestMatchProvider_None(t *testing.T) {
	clearProviderEnv(t)
	cfg := DefaultConfig()
	if got := cfg.MatchProvider("gpt-4o"); got.Provider != nil || got.Name != "" {
		t.Errorf("expected no match, got %+v", got)
	}
}
