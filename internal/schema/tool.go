package schema

import "context"

// ToolSession is a request/response channel to an external process that
// exposes named tools. A session is opened for one turn and must be closed on
// every exit path.
type ToolSession interface {
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	Close() error
}

// ToolSessionOpener acquires a ready (initialised) ToolSession.
type ToolSessionOpener interface {
	Open(ctx context.Context) (ToolSession, error)
}

