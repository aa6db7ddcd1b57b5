package providers

import (
	"strings"

	"github.com/crystaldolphin/guardrail/internal/schema"
)

// Params are the raw values needed to construct any schema.LLMProvider.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	APIKey       string
	APIBase      string
	ExtraHeaders map[string]string
	DefaultModel string
	ProviderName string // registry name, e.g. "openrouter", "anthropic"
}

// New creates the appropriate schema.LLMProvider for the given params.
//
// Rules:
//   - anthropic (by name or api base) → AnthropicProvider
//   - otherwise                       → OpenAIProvider (all OpenAI-compatible providers)
func New(p Params) schema.LLMProvider {
	if isAnthropic(p) {
		return NewAnthropicProvider(p.APIKey, p.APIBase, p.DefaultModel, p.ExtraHeaders)
	}
	return NewOpenAIProvider(p.APIKey, p.APIBase, p.DefaultModel, p.ProviderName, p.ExtraHeaders)
}

func isAnthropic(p Params) bool {
	if spec := FindByName(p.ProviderName); spec != nil && spec.IsAnthropic {
		return true
	}
	return strings.Contains(strings.ToLower(p.APIBase), "anthropic.com")
}
