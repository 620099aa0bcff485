package event

import (
	"fmt"
	"strings"

	"github.com/auto-dns/lxc-state-monitor/internal/domain"
)

// ParseLine converts one line of monitor output into a StateEvent.
//
// The expected shape is `'<name>' changed state to [<STATE>]`: the container
// name is the first whitespace-separated token wrapped in single quotes and the
// state is the last token wrapped in brackets.
func ParseLine(line string) (domain.StateEvent, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return domain.StateEvent{}, NewParseError(line, "expected at least two tokens")
	}

	name, ok := unwrap(fields[0], "'", "'")
	if !ok {
		return domain.StateEvent{}, NewParseError(line, "container name is not single-quoted")
	}
	state, ok := unwrap(fields[len(fields)-1], "[", "]")
	if !ok {
		return domain.StateEvent{}, NewParseError(line, "state is not bracketed")
	}

	return domain.StateEvent{
		Name:  name,
		State: domain.ContainerState(state),
	}, nil
}

// FormatLine renders an event the way lxc-monitor prints it.
func FormatLine(evt domain.StateEvent) string {
	return fmt.Sprintf("'%s' changed state to [%s]", evt.Name, evt.State)
}

// unwrap strips exactly one prefix and one suffix, rejecting empty contents.
func unwrap(token, prefix, suffix string) (string, bool) {
	if len(token) <= len(prefix)+len(suffix) {
		return "", false
	}
	if !strings.HasPrefix(token, prefix) || !strings.HasSuffix(token, suffix) {
		return "", false
	}
	return token[len(prefix) : len(token)-len(suffix)], true
}
