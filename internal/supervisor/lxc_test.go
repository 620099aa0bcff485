package supervisor

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lxcListOutput = `RUNNING
  web1
  db

FROZEN
  legacy
STOPPED
  cache
`

func fakeRunner(out string, err error) commandRunner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte(out), err
	}
}

func TestParseLXCList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		out     string
		want    Listing
		wantErr bool
	}{
		{
			name: "running and stopped sections",
			out:  "RUNNING\n  web1\n  db\n\nSTOPPED\n  cache\n",
			want: Listing{Running: []string{"web1", "db"}, Stopped: []string{"cache"}},
		},
		{
			name: "empty sections",
			out:  "RUNNING\n\nSTOPPED\n",
			want: Listing{},
		},
		{
			name:    "name before any header",
			out:     "web1\nRUNNING\n",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseLXCList([]byte(tc.out))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLXC_ExistsAndRunning(t *testing.T) {
	t.Parallel()

	l := NewLXC("lxc-list", zerolog.Nop())
	l.run = fakeRunner("RUNNING\n  web1\nSTOPPED\n  cache\n", nil)
	ctx := context.Background()

	exists, err := l.Exists(ctx, "cache")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = l.Exists(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, exists)

	running, err := l.Running(ctx, "web1")
	require.NoError(t, err)
	assert.True(t, running)

	running, err = l.Running(ctx, "cache")
	require.NoError(t, err)
	assert.False(t, running)
}

func TestLXC_CommandFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 1")
	l := NewLXC("lxc-list", zerolog.Nop())
	l.run = fakeRunner("", cause)

	_, err := l.Exists(context.Background(), "web1")
	require.ErrorIs(t, err, cause)
}

func TestLXC_FrozenContainersExistButDoNotRun(t *testing.T) {
	t.Parallel()

	l := NewLXC("lxc-list", zerolog.Nop())
	l.run = fakeRunner(lxcListOutput, nil)
	ctx := context.Background()

	listing, err := l.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"web1", "db", "legacy", "cache"}, listing.All())

	exists, err := l.Exists(ctx, "legacy")
	require.NoError(t, err)
	assert.True(t, exists)

	running, err := l.Running(ctx, "legacy")
	require.NoError(t, err)
	assert.False(t, running)
}
