// Package mcp opens Model Context Protocol sessions over stdio or
// streamable HTTP using mark3labs/mcp-go.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

const (
	clientName    = "guardrail"
	clientVersion = "0.1.0"
)

// Session is one initialised connection to an MCP server. It is not reused
// across requests; callers Close it when the request is done.
type Session struct {
	name   string
	client *mcpclient.Client

	closeOnce sync.Once
	closeErr  error
}

// Open starts (or connects to) the server described by cfg and performs
// the initialize handshake.
func Open(ctx context.Context, name string, cfg ServerConfig) (*Session, error) {
	if err := cfg.validate(name); err != nil {
		return nil, err
	}

	var (
		c   *mcpclient.Client
		err error
	)
	if cfg.Command != "" {
		c, err = mcpclient.NewStdioMCPClient(cfg.Command, environ(cfg.Env), cfg.Args...)
		if err != nil {
			return nil, fmt.Errorf("start MCP server %q: %w", name, err)
		}
	} else {
		c, err = mcpclient.NewStreamableHttpClient(cfg.URL, transport.WithHTTPHeaders(cfg.Headers))
		if err != nil {
			return nil, fmt.Errorf("connect MCP server %q: %w", name, err)
		}
		if err := c.Start(ctx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("connect MCP server %q: %w", name, err)
		}
	}
	return initialize(ctx, name, c)
}

func initialize(ctx context.Context, name string, c *mcpclient.Client) (*Session, error) {
	req := mcpgo.InitializeRequest{}
	req.Params.ProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcpgo.Implementation{Name: clientName, Version: clientVersion}

	if _, err := c.Initialize(ctx, req); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initialize MCP server %q: %w", name, err)
	}
	return &Session{name: name, client: c}, nil
}

// Name returns the configured server name.
func (s *Session) Name() string { return s.name }

// CallTool invokes a tool and returns its text output. A result flagged
// isError by the server is returned as an error carrying that text.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	req := mcpgo.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := s.client.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", name, err)
	}
	text := resultText(res)
	if res.IsError {
		return "", fmt.Errorf("tool %s reported error: %s", name, text)
	}
	return text, nil
}

// ListTools returns the tools advertised by the server.
func (s *Session) ListTools(ctx context.Context) ([]ToolInfo, error) {
	res, err := s.client.ListTools(ctx, mcpgo.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("list tools on %q: %w", s.name, err)
	}
	out := make([]ToolInfo, 0, len(res.Tools))
	for _, t := range res.Tools {
		out = append(out, toToolInfo(t))
	}
	return out, nil
}

// Close shuts the session down; for stdio servers this stops the process.
// Calling Close more than once is safe.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.client.Close()
	})
	return s.closeErr
}

// resultText joins the text blocks of a tool result.
func resultText(res *mcpgo.CallToolResult) string {
	if res == nil {
		return "(no output)"
	}
	var parts []string
	for _, block := range res.Content {
		switch b := block.(type) {
		case mcpgo.TextContent:
			parts = append(parts, b.Text)
		case *mcpgo.TextContent:
			parts = append(parts, b.Text)
		}
	}
	if len(parts) == 0 {
		return "(no output)"
	}
	return strings.Join(parts, "\n")
}

func environ(extra map[string]string) []string {
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}

// IsConfigError reports whether err came from an incomplete server entry.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
