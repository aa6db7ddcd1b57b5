package dispatch

import (
	"context"
	"sync"

	"github.com/crystaldolphin/guardrail/internal/schema"
)

// scriptedProvider replays replies in order, repeating the last one. With
// block set it waits for the request context to end.
type scriptedProvider struct {
	mu      sync.Mutex
	replies []string
	err     error
	block   bool
	calls   []schema.Messages
	opts    []schema.ChatOptions
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
	i := min(len(p.calls)-1, len(p.replies)-1)
	return schema.LLMResponse{Content: p.replies[i]}, nil
}

func (p *scriptedProvider) DefaultModel() string { return "fake/model" }

type toolCall struct {
	Name string
	Args map[string]any
}

type fakeSession struct {
	result string
	err    error
	block  bool

	mu     sync.Mutex
	calls  []toolCall
	closed int
}

func (s *fakeSession) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, toolCall{Name: name, Args: args})
	block := s.block
	s.mu.Unlock()
	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.result, s.err
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

type fakeOpener struct {
	session *fakeSession
	err     error
	opens   int
}

func (o *fakeOpener) Open(context.Context) (schema.ToolSession, error) {
	o.opens++
	if o.err != nil {
		return nil, o.err
	}
	return o.session, nil
}
