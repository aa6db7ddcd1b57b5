// Package providers implements the model service: an OpenAI-compatible
// client for gateways and most vendors, and a native Anthropic client.
package providers

import "github.com/crystaldolphin/guardrail/internal/schema"

// LLMProvider is the interface every LLM backend must satisfy.
// The canonical definition lives in internal/schema.
type LLMProvider = schema.LLMProvider

var (
	_ LLMProvider = (*OpenAIProvider)(nil)
	_ LLMProvider = (*AnthropicProvider)(nil)
)
