// Package classify drives a model to a payload that satisfies a contract,
// feeding each violation back as a repair instruction.
package classify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crystaldolphin/guardrail/internal/contract"
	"github.com/crystaldolphin/guardrail/internal/extract"
	"github.com/crystaldolphin/guardrail/internal/logging"
	"github.com/crystaldolphin/guardrail/internal/schema"
)

// Options tunes a Classifier. Zero values fall back to the provider defaults.
type Options struct {
	Model       string
	MaxTokens   int
	CallTimeout time.Duration // per model call; 0 disables
	Logger      *zap.Logger
}

// Classifier runs the repair-retry loop. It holds no per-call state and is
// safe for concurrent use.
type Classifier struct {
	provider schema.LLMProvider
	contract *contract.Contract
	opts     Options
	system   string
	logger   *zap.Logger
}

// New returns a Classifier enforcing c against provider.
func New(provider schema.LLMProvider, c *contract.Contract, opts Options) *Classifier {
	return &Classifier{
		provider: provider,
		contract: c,
		opts:     opts,
		system:   systemPrompt(c),
		logger:   logging.OrNop(opts.Logger),
	}
}

// Contract returns the contract being enforced.
func (c *Classifier) Contract() *contract.Contract { return c.contract }

// Classify returns a payload accepted by the contract. It makes at most
// maxRetries+1 model calls at temperature 0 and returns an
// *ExhaustedRetriesError if none conforms. Model errors end the loop at once.
func (c *Classifier) Classify(ctx context.Context, input string, maxRetries int) (map[string]any, error) {
	if maxRetries < 0 {
		return nil, fmt.Errorf("maxRetries must be >= 0, got %d", maxRetries)
	}
	log := c.logger.With(zap.String("turn", uuid.NewString()))

	current := userTurn(input)
	var last contract.Violation
	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		raw, err := c.call(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("classify attempt %d: %w", attempt, err)
		}

		outcome := evaluate(c.contract, raw)
		if outcome.Accepted() {
			log.Debug("payload accepted", zap.Int("attempt", attempt))
			return outcome.Payload, nil
		}

		last = *outcome.Violation
		log.Warn("output violates contract",
			zap.Int("attempt", attempt),
			zap.String("violation", last.String()))
		current = repairTurn(last, input)
	}
	return nil, &ExhaustedRetriesError{Attempts: maxRetries + 1, Last: last}
}

func (c *Classifier) call(ctx context.Context, userText string) (string, error) {
	if c.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.CallTimeout)
		defer cancel()
	}

	msgs := schema.NewMessages()
	msgs.AddSystem(c.system)
	msgs.AddUser(userText)

	start := time.Now()
	resp, err := c.provider.Chat(ctx, msgs, schema.NewChatOptions(c.opts.Model, c.opts.MaxTokens, 0))
	if err != nil {
		return "", err
	}
	c.logger.Debug("model call",
		zap.String("model", c.opts.Model),
		zap.Duration("duration", time.Since(start)))
	return resp.Content, nil
}

// evaluate extracts and validates one raw completion.
func evaluate(c *contract.Contract, raw string) contract.Outcome {
	candidate, ok := extract.Extract(raw)
	if !ok {
		return contract.Outcome{Violation: &contract.Violation{
			Kind:   contract.NotParseable,
			Detail: "no JSON object found",
		}}
	}
	return contract.Validate(c, candidate)
}
