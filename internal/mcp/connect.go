package mcp

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/crystaldolphin/guardrail/internal/schema"
)

// Opener opens a fresh Session to one configured server per request.
type Opener struct {
	name   string
	cfg    ServerConfig
	logger *zap.Logger
}

// NewOpener returns an Opener for the named server.
func NewOpener(name string, cfg ServerConfig, logger *zap.Logger) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{name: name, cfg: cfg, logger: logger}
}

// Server returns the configured server name.
func (o *Opener) Server() string { return o.name }

// Open implements schema.ToolSessionOpener.
func (o *Opener) Open(ctx context.Context) (schema.ToolSession, error) {
	s, err := o.OpenSession(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OpenSession is Open with the concrete return type, for callers that also
// need ListTools.
func (o *Opener) OpenSession(ctx context.Context) (*Session, error) {
	start := time.Now()
	s, err := Open(ctx, o.name, o.cfg)
	if err != nil {
		o.logger.Warn("MCP session open failed", zap.String("server", o.name), zap.Error(err))
		return nil, err
	}
	o.logger.Debug("MCP session opened",
		zap.String("server", o.name),
		zap.Duration("duration", time.Since(start)))
	return s, nil
}

var (
	_ schema.ToolSessionOpener = (*Opener)(nil)
	_ schema.ToolSession       = (*Session)(nil)
)
