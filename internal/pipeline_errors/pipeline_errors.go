package pipelineerrors

import (
	"errors"
	"fmt"
)

// Carries an exit code along with an error so the app can exit correctly
type ExitError struct {
	Err  error
	Code int
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%d", e.Code)
	}

	return fmt.Sprintf("%d: %s", e.Code, e.Err.Error())
}

func (e ExitError) Unwrap() error {
	return e.Err
}

// Wrap an error with an exit code
func ExitErrorWrap(code int, err error) error {
	return ExitError{Code: code, Err: err}
}

// AuthenticationError is fatal at startup; no workflow runs after it.
type AuthenticationError struct {
	Err error
}

func (e AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Err.Error())
}

func (e AuthenticationError) Unwrap() error { return e.Err }

// TransportError is a network-level failure talking to the judge. The
// polling monitor retries these within its own wait budget; everywhere
// else they surface to the caller.
type TransportError struct {
	Op  string
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %s", e.Op, e.Err.Error())
}

func (e TransportError) Unwrap() error { return e.Err }

// ValidationError is a malformed request rejected by the judge.
// Non-retryable.
type ValidationError struct {
	Op      string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Message)
}

// LanguageUnsupportedError means the problem does not accept the requested
// submission language at all. Callers must treat this as a skip, never a
// failure.
type LanguageUnsupportedError struct {
	ProblemAlias string
	Language     string
}

func (e LanguageUnsupportedError) Error() string {
	return fmt.Sprintf(
		"problem %q does not accept language %q",
		e.ProblemAlias, e.Language,
	)
}

// GenerationError means the content generator could not produce output.
// Both the solution and editorial paths degrade to deterministic
// placeholder content rather than aborting the item.
type GenerationError struct {
	Kind string // "solution" or "editorial"
	Err  error
}

func (e GenerationError) Error() string {
	return fmt.Sprintf("failed to generate %s: %s", e.Kind, e.Err.Error())
}

func (e GenerationError) Unwrap() error { return e.Err }

// IsSkip reports whether err classifies the item as skipped rather than
// failed.
func IsSkip(err error) bool {
	var lu LanguageUnsupportedError
	return errors.As(err, &lu)
}
