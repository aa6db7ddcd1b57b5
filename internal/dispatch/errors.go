package dispatch

import (
	"errors"
	"fmt"
)

// ErrToolInvocation is matched by every ToolInvocationError.
var ErrToolInvocation = errors.New("tool invocation failed")

// ToolInvocationError reports a failure to run the tool the model asked
// for. It ends the turn.
type ToolInvocationError struct {
	Tool string
	Err  error
}

func (e *ToolInvocationError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *ToolInvocationError) Unwrap() []error { return []error{ErrToolInvocation, e.Err} }
