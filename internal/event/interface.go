package event

import (
	"context"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/events"
)

// LineSource is a live stream of monitor lines produced by an external supervisor.
type LineSource interface {
	// Start spawns or connects to the event stream.
	Start(ctx context.Context) error
	// PollLine waits at most timeout for the next line. It returns ErrWouldBlock
	// when the timeout elapses and io.EOF once the stream has ended.
	PollLine(timeout time.Duration) (string, error)
	// Alive reports whether the process behind the stream is still running.
	Alive() bool
	// Terminate stops the stream and waits for it to exit. Safe to call more than once.
	Terminate() error
}

type dockerClient interface {
	Ping(ctx context.Context) (types.Ping, error)
	Events(ctx context.Context, options events.ListOptions) (<-chan events.Message, <-chan error)
}
