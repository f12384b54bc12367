package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/schema"

	"github.com/linyows/tagver/logging"
)

var decoder = schema.NewDecoder()

// Sender posts a human-readable message somewhere. Delivery failures are
// logged by implementations and never abort a run.
type Sender interface {
	Send(ctx context.Context, message string)
}

// Notifier extends Sender with failure bookkeeping. The watch loop feeds
// it: every failed cycle is reported through SendError, every successful
// one resets the counter.
type Notifier interface {
	Sender
	SendError(ctx context.Context, err error)
	ResetErrorCount()
}

// New builds a notifier from a scheme URL, for example
// slack://releases?title=myapp or mail://smtp.example.com:587/me@example.com.
// A value without a scheme separator is rejected like any unknown scheme.
func New(ctx context.Context, urlstr string, log *logging.Logger) (Notifier, error) {
	splitted := strings.SplitN(urlstr, "://", 2)
	if urlstr != "" && len(splitted) < 2 {
		return nil, fmt.Errorf("unsupported notify scheme: %s", urlstr)
	}

	var underlying Sender
	switch splitted[0] {
	case "":
		underlying = &Null{}
	case "slack":
		s, err := NewSlack(urlstr, log)
		if err != nil {
			return nil, err
		}
		underlying = s
	case "mail", "smtp":
		m, err := NewMail(splitted[1], log)
		if err != nil {
			return nil, err
		}
		underlying = m
	default:
		return nil, fmt.Errorf("unsupported notify scheme: %s", urlstr)
	}

	return NewErrorLimiting(underlying, log), nil
}

// Null swallows every message. Used when no notifier is configured.
type Null struct{}

func (n *Null) Send(ctx context.Context, message string) {}

const (
	// maxSendErrors caps how many failure notifications go out, so a
	// broken remote cannot spam the channel during watch mode.
	maxSendErrors = 3
	// maxErrorCount bounds the counter itself.
	maxErrorCount = 1000
)

// ErrorLimiting wraps a Sender with failure limiting: regular messages
// only go out while the failure counter is zero, and failure reports stop
// after maxSendErrors until a success resets the counter.
type ErrorLimiting struct {
	underlying Sender
	errors     int
	logger     *logging.Logger
	mu         sync.Mutex
}

// NewErrorLimiting wraps s with failure limiting.
func NewErrorLimiting(s Sender, log *logging.Logger) *ErrorLimiting {
	return &ErrorLimiting{underlying: s, logger: log}
}

func (e *ErrorLimiting) Send(ctx context.Context, message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.errors == 0 {
		e.underlying.Send(ctx, message)
	}
}

// SendError reports one failed cycle. The first failures are forwarded to
// the underlying sender; once the cap is hit a final notice goes out and
// everything after that is only logged.
func (e *ErrorLimiting) SendError(ctx context.Context, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.errors < maxErrorCount {
		e.errors++
	}

	if e.errors < maxSendErrors {
		e.underlying.Send(ctx, fmt.Sprintf("Error occurred (count: %d): %v", e.errors, err))
	} else if e.errors == maxSendErrors {
		e.underlying.Send(ctx, fmt.Sprintf("No more error notifications will be sent until errors are resolved.\n\nError occurred (count: %d): %v", e.errors, err))
	}

	e.logger.Error("notify error recorded", "count", e.errors, "error", err)
}

// ResetErrorCount clears the failure counter after a successful cycle.
func (e *ErrorLimiting) ResetErrorCount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.errors > 0 {
		e.logger.Info("notify error count reset", "from", e.errors)
		e.errors = 0
	}
}
