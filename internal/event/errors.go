package event

import (
	"errors"
	"fmt"
)

var (
	// ErrWouldBlock is returned by PollLine when no line arrived within the timeout.
	ErrWouldBlock = errors.New("no line available")
	// ErrPTYUnsupported is returned when pseudo-terminals cannot be allocated on this platform.
	ErrPTYUnsupported = errors.New("pseudo-terminal capture is not supported on this platform")
)

// ParseError reports a monitor line that does not match the state-change format.
type ParseError struct {
	Line   string
	Reason string
}

func NewParseError(line, reason string) *ParseError {
	return &ParseError{Line: line, Reason: reason}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed monitor line %q: %s", e.Line, e.Reason)
}

// UnsupportedActionError reports a Docker event whose action has no supervisor state.
type UnsupportedActionError struct {
	action string
}

func NewUnsupportedActionError(action string) *UnsupportedActionError {
	return &UnsupportedActionError{action: action}
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported docker action: %s", e.action)
}
