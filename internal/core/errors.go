package core

import (
	"errors"
	"fmt"
	"sort"
)

var ErrNoContainers = errors.New("no containers to watch")

// RegistrationError collects the containers that could not be monitored.
type RegistrationError struct {
	Failed map[string]error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to monitor %d container(s): %v", len(e.Failed), errors.Join(e.errs()...))
}

func (e *RegistrationError) errs() []error {
	names := make([]string, 0, len(e.Failed))
	for name := range e.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]error, 0, len(names))
	for _, name := range names {
		out = append(out, e.Failed[name])
	}
	return out
}

func NewRegistrationError(failed map[string]error) *RegistrationError {
	return &RegistrationError{Failed: failed}
}
