package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer. Construction-time and lookup errors
// propagate to the immediate caller; per-task execution errors never do,
// because SafeExecute converts them into a failed ExecutionResponse.
var (
	ErrNotFound      = fmt.Errorf("not found")
	ErrMissingConfig = fmt.Errorf("required config field missing")
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrInvalidOutput = fmt.Errorf("invalid output")
	ErrProviderError = fmt.Errorf("provider error")

	// Provider call classification, used by the circuit breaker and the
	// HTTP status mapping in the llm adapter.
	ErrRateLimit       = fmt.Errorf("rate limit exceeded")
	ErrAuthInvalid     = fmt.Errorf("authentication failed")
	ErrContextOverflow = fmt.Errorf("context window exceeded")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "Registry.Create")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsMissingConfig reports whether err wraps ErrMissingConfig.
func IsMissingConfig(err error) bool { return errors.Is(err, ErrMissingConfig) }
