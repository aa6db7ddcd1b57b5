package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/crystaldolphin/guardrail/internal/schema"
	"github.com/crystaldolphin/guardrail/internal/shared/llmutils"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint
// (OpenRouter, OpenAI, DeepSeek, Groq, vLLM, ...).
type OpenAIProvider struct {
	client       *openai.Client
	apiBase      string
	defaultModel string
	gateway      *ProviderSpec // non-nil for gateway/local providers
	spec         *ProviderSpec // non-nil for standard providers
}

// NewOpenAIProvider constructs a provider from raw config values.
// The caller extracts these from config.Config to avoid an import cycle.
func NewOpenAIProvider(
	apiKey, apiBase, defaultModel, providerName string,
	extraHeaders map[string]string,
) *OpenAIProvider {
	gateway := FindGateway(providerName, apiKey, apiBase)

	var spec *ProviderSpec
	if gateway == nil {
		spec = FindByName(providerName)
		if spec == nil {
			spec = FindByModel(defaultModel)
		}
	}

	effectiveBase := apiBase
	if effectiveBase == "" {
		switch {
		case gateway != nil && gateway.DefaultAPIBase != "":
			effectiveBase = gateway.DefaultAPIBase
		case spec != nil && spec.DefaultAPIBase != "":
			effectiveBase = spec.DefaultAPIBase
		default:
			effectiveBase = "https://api.openai.com/v1"
		}
	}
	effectiveBase = strings.TrimRight(effectiveBase, "/")

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = effectiveBase
	cfg.HTTPClient = &http.Client{
		Timeout:   120 * time.Second,
		Transport: &headerTransport{headers: extraHeaders, base: http.DefaultTransport},
	}

	return &OpenAIProvider{
		client:       openai.NewClientWithConfig(cfg),
		apiBase:      effectiveBase,
		defaultModel: defaultModel,
		gateway:      gateway,
		spec:         spec,
	}
}

func (p *OpenAIProvider) DefaultModel() string { return p.defaultModel }

// APIBase returns the resolved endpoint.
func (p *OpenAIProvider) APIBase() string { return p.apiBase }

// Chat implements schema.LLMProvider.
func (p *OpenAIProvider) Chat(
	ctx context.Context,
	messages schema.Messages,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	req := openai.ChatCompletionRequest{
		Model:       p.resolveModel(model),
		Messages:    toOpenAIMessages(messages),
		MaxTokens:   maxTokens,
		Temperature: wireTemperature(opts.Temperature),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return schema.LLMResponse{}, fmt.Errorf("HTTP %d: %s", apiErr.HTTPStatusCode, friendlyAPIError(apiErr))
		}
		return schema.LLMResponse{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return schema.LLMResponse{}, errors.New("empty choices in response")
	}

	choice := resp.Choices[0]
	finish := string(choice.FinishReason)
	if finish == "" {
		finish = "stop"
	}
	return schema.LLMResponse{
		Content:      llmutils.StripThink(choice.Message.Content),
		FinishReason: finish,
		Usage: map[string]int{
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
			"total_tokens":      resp.Usage.TotalTokens,
		},
	}, nil
}

// wireTemperature maps a requested temperature to the request field.
// go-openai omits a zero temperature from the JSON body, which lets the
// server fall back to its own default; the smallest positive float keeps an
// explicit zero on the wire.
func wireTemperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func toOpenAIMessages(messages schema.Messages) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages.Messages))
	for _, m := range messages.Messages {
		msg := openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
		if m.Role == schema.RoleTool && m.ToolName != "" {
			msg.Name = m.ToolName
		}
		out = append(out, msg)
	}
	return out
}

// resolveModel strips routing prefixes from the model string so the provider
// API receives the model name it expects.
//
// Gateway providers (e.g. OpenRouter) keep the "vendor/model" sub-prefix
// because the gateway needs it for routing; only the gateway's own prefix
// ("openrouter/") is removed. Standard providers strip their own prefix.
func (p *OpenAIProvider) resolveModel(model string) string {
	if p.gateway != nil {
		if p.gateway.StripModelPrefix {
			if i := strings.LastIndex(model, "/"); i >= 0 {
				return model[i+1:]
			}
			return model
		}
		return stripPrefix(model, p.gateway.RoutePrefix)
	}

	if p.spec != nil {
		for _, pfx := range []string{p.spec.RoutePrefix, p.spec.Name} {
			if stripped := stripPrefix(model, pfx); stripped != model {
				return stripped
			}
		}
	}
	return model
}

func stripPrefix(model, prefix string) string {
	if prefix == "" {
		return model
	}
	full := prefix + "/"
	if strings.HasPrefix(strings.ToLower(model), full) {
		return model[len(full):]
	}
	return model
}

func friendlyAPIError(err *openai.APIError) string {
	if err.HTTPStatusCode == http.StatusTooManyRequests {
		return "rate limit exceeded"
	}
	return llmutils.Truncate(strings.TrimSpace(err.Message), 300)
}

// headerTransport adds configured extra headers to every request.
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) == 0 {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}
