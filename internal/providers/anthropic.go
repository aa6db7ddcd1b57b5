package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/crystaldolphin/guardrail/internal/schema"
	"github.com/crystaldolphin/guardrail/internal/shared/llmutils"
)

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	client       anthropic.Client
	defaultModel string
}

// NewAnthropicProvider builds a provider. apiBase may be empty to use the
// SDK default endpoint.
func NewAnthropicProvider(apiKey, apiBase, defaultModel string, extraHeaders map[string]string) *AnthropicProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if apiBase != "" {
		opts = append(opts, option.WithBaseURL(apiBase))
	}
	for k, v := range extraHeaders {
		opts = append(opts, option.WithHeader(k, v))
	}
	return &AnthropicProvider{
		client:       anthropic.NewClient(opts...),
		defaultModel: defaultModel,
	}
}

func (p *AnthropicProvider) DefaultModel() string { return p.defaultModel }

// Chat implements schema.LLMProvider. System messages are joined into the
// system prompt; tool results have no tool_use id to attach to, so they are
// sent as user text.
func (p *AnthropicProvider) Chat(
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

	system, converted := toAnthropicMessages(messages)
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(stripPrefix(model, "anthropic")),
		MaxTokens:   int64(maxTokens),
		Messages:    converted,
		Temperature: anthropic.Float(opts.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return schema.LLMResponse{}, fmt.Errorf("HTTP %d: %s", apiErr.StatusCode, llmutils.Truncate(apiErr.Error(), 300))
		}
		return schema.LLMResponse{}, fmt.Errorf("anthropic messages: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}

	finish := "stop"
	if sr := string(msg.StopReason); sr != "" && sr != "end_turn" {
		finish = sr
	}
	in, out := int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)
	return schema.LLMResponse{
		Content:      llmutils.StripThink(b.String()),
		FinishReason: finish,
		Usage: map[string]int{
			"prompt_tokens":     in,
			"completion_tokens": out,
			"total_tokens":      in + out,
		},
	}, nil
}

// toAnthropicMessages returns (system_prompt, converted_messages).
func toAnthropicMessages(messages schema.Messages) (string, []anthropic.MessageParam) {
	var system []string
	var out []anthropic.MessageParam

	for _, m := range messages.Messages {
		switch m.Role {
		case schema.RoleSystem:
			system = append(system, m.Content)
		case schema.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case schema.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case schema.RoleTool:
			label := "Tool result"
			if m.ToolName != "" {
				label += " (" + m.ToolName + ")"
			}
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(label+":\n"+m.Content)))
		}
	}
	return strings.Join(system, "\n\n"), out
}
