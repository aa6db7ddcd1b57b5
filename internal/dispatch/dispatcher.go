// Package dispatch lets a model answer directly or ask for one tool call,
// runs that call over a fresh tool session and folds the result back into a
// second model call.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crystaldolphin/guardrail/internal/logging"
	"github.com/crystaldolphin/guardrail/internal/schema"
)

// Options tunes a Dispatcher.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	CallTimeout time.Duration // per model call and per tool session; 0 disables
	Strict      bool          // check tool name and arguments against the catalog before opening a session
	Logger      *zap.Logger
}

// Answer is the outcome of one turn. Intent and ToolResult are set only when
// a tool ran.
type Answer struct {
	Text       string          `json:"answer"`
	Intent     *ToolCallIntent `json:"toolCall,omitempty"`
	ToolResult string          `json:"toolResult,omitempty"`
}

// Dispatcher runs the two-phase tool protocol. It is safe for concurrent
// use; every Run opens its own session.
type Dispatcher struct {
	provider schema.LLMProvider
	catalog  *Catalog
	opener   schema.ToolSessionOpener
	opts     Options
	system   string
	logger   *zap.Logger
}

// New returns a Dispatcher offering catalog's tools.
func New(provider schema.LLMProvider, catalog *Catalog, opener schema.ToolSessionOpener, opts Options) *Dispatcher {
	return &Dispatcher{
		provider: provider,
		catalog:  catalog,
		opener:   opener,
		opts:     opts,
		system:   strings.Replace(intentTemplate, "%TOOLS%", catalog.Render(), 1),
		logger:   logging.OrNop(opts.Logger),
	}
}

// Catalog returns the tools offered to the model.
func (d *Dispatcher) Catalog() *Catalog { return d.catalog }

// Run answers input. Tool failures are returned as *ToolInvocationError and
// are not retried.
func (d *Dispatcher) Run(ctx context.Context, input string) (Answer, error) {
	log := d.logger.With(zap.String("turn", uuid.NewString()))

	msgs := schema.NewMessages()
	msgs.AddSystem(d.system)
	msgs.AddUser(input)

	raw, err := d.chat(ctx, log, msgs)
	if err != nil {
		return Answer{}, fmt.Errorf("intent call: %w", err)
	}

	intent, err := parseIntent(raw)
	if err != nil {
		return Answer{}, &ToolInvocationError{Tool: intent.Tool, Err: err}
	}
	if intent == nil {
		log.Debug("direct answer")
		return Answer{Text: raw}, nil
	}

	if d.opts.Strict {
		if err := d.catalog.Check(intent.Tool, intent.Arguments); err != nil {
			return Answer{}, &ToolInvocationError{Tool: intent.Tool, Err: err}
		}
	}

	result, err := d.invoke(ctx, log, intent)
	if err != nil {
		return Answer{}, &ToolInvocationError{Tool: intent.Tool, Err: err}
	}

	fold := schema.NewMessages()
	fold.AddSystem(foldPrompt)
	fold.AddUser(input)
	fold.AddAssistant(raw)
	fold.AddToolResult(intent.Tool, result)

	final, err := d.chat(ctx, log, fold)
	if err != nil {
		return Answer{}, fmt.Errorf("answer call: %w", err)
	}
	return Answer{Text: final, Intent: intent, ToolResult: result}, nil
}

// invoke opens a session, calls the tool and closes the session on every path.
func (d *Dispatcher) invoke(ctx context.Context, log *zap.Logger, intent *ToolCallIntent) (result string, err error) {
	if d.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.CallTimeout)
		defer cancel()
	}

	session, err := d.opener.Open(ctx)
	if err != nil {
		return "", fmt.Errorf("open tool session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn("tool session close failed", zap.String("tool", intent.Tool), zap.Error(cerr))
		}
	}()

	start := time.Now()
	result, err = session.CallTool(ctx, intent.Tool, intent.Arguments)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w (timeout %s)", err, d.opts.CallTimeout)
		}
		return "", err
	}
	log.Info("tool invoked",
		zap.String("tool", intent.Tool),
		zap.Duration("duration", time.Since(start)))
	return result, nil
}

func (d *Dispatcher) chat(ctx context.Context, log *zap.Logger, msgs schema.Messages) (string, error) {
	if d.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.CallTimeout)
		defer cancel()
	}
	start := time.Now()
	resp, err := d.provider.Chat(ctx, msgs, schema.NewChatOptions(d.opts.Model, d.opts.MaxTokens, d.opts.Temperature))
	if err != nil {
		return "", err
	}
	log.Debug("model call",
		zap.String("model", d.opts.Model),
		zap.Duration("duration", time.Since(start)))
	return resp.Content, nil
}
