package classify

import (
	"errors"
	"fmt"

	"github.com/crystaldolphin/guardrail/internal/contract"
)

// ErrExhaustedRetries is matched by every ExhaustedRetriesError.
var ErrExhaustedRetries = errors.New("retries exhausted")

// ExhaustedRetriesError reports that no attempt produced a conforming
// payload. Last is the violation of the final attempt.
type ExhaustedRetriesError struct {
	Attempts int
	Last     contract.Violation
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("no conforming output after %d attempts: %s", e.Attempts, e.Last.Reason())
}

func (e *ExhaustedRetriesError) Unwrap() error { return ErrExhaustedRetries }
