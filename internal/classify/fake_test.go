package classify

import (
	"context"
	"sync"

	"github.com/crystaldolphin/guardrail/internal/schema"
)

// scriptedProvider replays replies in order, repeating the last one, or
// answers through respond when set. Every request is recorded. With block
// set it waits for the request context to end.
type scriptedProvider struct {
	mu      sync.Mutex
	replies []string
	respond func(schema.Messages) string
	err     error
	block   bool

	calls []schema.Messages
	opts  []schema.ChatOptions
}

func (p *scriptedProvider) Chat(ctx context.Context, msgs schema.Messages, opts schema.ChatOptions) (schema.LLMResponse, error) {
	p.mu.Lock()
	p.calls = append(p.calls, msgs.Clone())
	p.opts = append(p.opts, opts)
	if p.block {
		p.mu.Unlock()
		<-ctx.Done()
		return schema.LLMResponse{}, ctx.Err()
	}
	defer p.mu.Unlock()

	if p.err != nil {
		return schema.LLMResponse{}, p.err
	}
	if p.respond != nil {
		return schema.LLMResponse{Content: p.respond(msgs)}, nil
	}
	i := len(p.calls) - 1
	if i >= len(p.replies) {
		i = len(p.replies) - 1
	}
	return schema.LLMResponse{Content: p.replies[i]}, nil
}

func (p *scriptedProvider) DefaultModel() string { return "fake/model" }

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// userText returns the user turn of the n-th recorded call.
func (p *scriptedProvider) userText(n int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range p.calls[n].Messages {
		if m.Role == schema.RoleUser {
			return m.Content
		}
	}
	return ""
}
