package tmux

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable indicates the tmux binary could not be launched at all
// (not installed, not on PATH, or otherwise unreachable). It is fatal to
// the attempted action, never to the caller's loop.
var ErrUnavailable = errors.New("tmux is not available")

// CommandError indicates tmux ran but reported failure for an operation.
// Message carries the captured stderr.
type CommandError struct {
	Op      string
	Message string
}

func (e *CommandError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tmux %s failed", e.Op)
	}
	return fmt.Sprintf("tmux %s failed: %s", e.Op, e.Message)
}

// ParseError indicates tmux succeeded but its output could not be parsed
// as a whole. Per-line anomalies are not parse errors; they are skipped
// and recorded as snapshot warnings.
type ParseError struct {
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable tmux output: %s", e.Detail)
}

// ValidationError indicates an input was rejected locally, before any
// tmux invocation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateName rejects names that are empty or that would corrupt the
// line grammar used to parse listing output.
func ValidateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	if strings.ContainsAny(name, delim+"\n") {
		return &ValidationError{Field: field, Reason: "must not contain tabs or newlines"}
	}
	return nil
}
