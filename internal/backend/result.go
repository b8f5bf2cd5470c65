package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Outcome classifies the result of a backend call
type Outcome int

const (
	// Success means the backend confirmed the operation
	Success Outcome = iota
	// Recoverable means the call failed but retrying may succeed
	Recoverable
	// Fatal means retrying the same call will not help
	Fatal
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Recoverable:
		return "recoverable"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of a backend call together with its cause
type Result struct {
	Outcome    Outcome
	StatusCode int // 0 when no response was received
	Err        error
}

func (r Result) OK() bool {
	return r.Outcome == Success
}

// classifyStatus maps an HTTP status to an outcome
func classifyStatus(status int) Outcome {
	switch {
	case status >= 200 && status < 300:
		return Success
	case status >= 500,
		status == http.StatusRequestTimeout,
		status == http.StatusTooManyRequests:
		return Recoverable
	default:
		return Fatal
	}
}

// classifyTransport maps a transport error to an outcome. A caller that gave
// up is fatal for this attempt; anything else on the wire may be retried.
func classifyTransport(ctx context.Context, err error) Outcome {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return Fatal
	}
	return Recoverable
}
