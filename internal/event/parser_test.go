package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto-dns/lxc-state-monitor/internal/domain"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want domain.StateEvent
	}{
		{
			name: "running",
			line: "'web1' changed state to [RUNNING]",
			want: domain.StateEvent{Name: "web1", State: domain.StateRunning},
		},
		{
			name: "surrounding whitespace",
			line: "  'db-2'   changed state to   [STOPPED]  ",
			want: domain.StateEvent{Name: "db-2", State: domain.StateStopped},
		},
		{
			name: "unknown state passes through",
			line: "'web1' changed state to [HIBERNATING]",
			want: domain.StateEvent{Name: "web1", State: domain.ContainerState("HIBERNATING")},
		},
		{
			name: "two tokens",
			line: "'cache' [FROZEN]",
			want: domain.StateEvent{Name: "cache", State: domain.StateFrozen},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLine(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseLine_RejectsMalformedLines(t *testing.T) {
	t.Parallel()

	lines := []string{
		"",
		"garbage",
		"web1 changed state to [RUNNING]",
		"'web1' changed state to RUNNING",
		"'' changed state to [RUNNING]",
		"'web1' changed state to []",
		"'web1 changed state to [RUNNING]",
		"lxc-monitor: failed to connect to socket",
	}

	for _, line := range lines {
		_, err := ParseLine(line)
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr, "line %q", line)
		assert.Equal(t, line, parseErr.Line)
	}
}

func TestFormatLine_IsParsedBack(t *testing.T) {
	t.Parallel()

	evt := domain.StateEvent{Name: "web1", State: domain.StateThawed}
	line := FormatLine(evt)
	assert.Equal(t, "'web1' changed state to [THAWED]", line)

	got, err := ParseLine(line)
	require.NoError(t, err)
	assert.Equal(t, evt, got)
}
