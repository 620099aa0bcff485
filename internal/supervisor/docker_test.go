package supervisor

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	containers []container.Summary
	err        error
	options    container.ListOptions
}

func (f *fakeLister) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	f.options = options
	return f.containers, f.err
}

func TestDocker_ListGroupsByState(t *testing.T) {
	t.Parallel()

	cli := &fakeLister{containers: []container.Summary{
		{ID: "1", Names: []string{"/web1"}, State: "running"},
		{ID: "2", Names: []string{"/cache"}, State: "exited"},
		{ID: "3", Names: nil, State: "running"},
		{ID: "4", Names: []string{"/db"}, State: "paused"},
	}}
	d := NewDocker(cli, zerolog.Nop())

	listing, err := d.List(context.Background())
	require.NoError(t, err)
	assert.True(t, cli.options.All, "stopped containers must be listed too")
	assert.Equal(t, Listing{Running: []string{"web1"}, Frozen: []string{"db"}, Stopped: []string{"cache"}}, listing)

	exists, err := d.Exists(context.Background(), "cache")
	require.NoError(t, err)
	assert.True(t, exists)

	running, err := d.Running(context.Background(), "cache")
	require.NoError(t, err)
	assert.False(t, running)

	running, err = d.Running(context.Background(), "db")
	require.NoError(t, err)
	assert.False(t, running)
}

func TestDocker_ListFailure(t *testing.T) {
	t.Parallel()

	cli := &fakeLister{err: errors.New("daemon unreachable")}
	d := NewDocker(cli, zerolog.Nop())

	_, err := d.Exists(context.Background(), "web1")
	require.ErrorIs(t, err, cli.err)
}
