package event

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types/events"
	"github.com/docker/docker/api/types/filters"
	"github.com/rs/zerolog"
)

// DockerSource reads container events from the Docker daemon and renders them
// as monitor lines, so Docker containers share the LXC dispatch path.
type DockerSource struct {
	logger zerolog.Logger
	cli    dockerClient

	queue  *lineQueue
	cancel context.CancelFunc
	done   chan struct{}
}

func NewDockerSource(cli dockerClient, logger zerolog.Logger) *DockerSource {
	return &DockerSource{
		logger: logger,
		cli:    cli,
	}
}

func (ds *DockerSource) Start(ctx context.Context) error {
	if _, err := ds.cli.Ping(ctx); err != nil {
		return fmt.Errorf("ping docker daemon: %w", err)
	}

	// Create a filter to get container state events only
	filterArgs := filters.NewArgs()
	filterArgs.Add("type", string(events.ContainerEventType))
	for action := range dockerActionStates {
		filterArgs.Add("event", string(action))
	}

	ctx, cancel := context.WithCancel(ctx)
	eventCh, errCh := ds.cli.Events(ctx, events.ListOptions{Filters: filterArgs})

	ds.queue = newLineQueue(lineBufferSize)
	ds.cancel = cancel
	ds.done = make(chan struct{})

	go ds.forward(ctx, eventCh, errCh)

	ds.logger.Info().Msg("Subscribed to Docker container events")
	return nil
}

func (ds *DockerSource) forward(ctx context.Context, eventCh <-chan events.Message, errCh <-chan error) {
	defer close(ds.done)
	defer ds.queue.end()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil && ctx.Err() == nil {
				ds.logger.Error().Err(err).Msg("Error from Docker events stream")
			}
			// The daemon closes the stream after reporting an error.
			return
		case msg, ok := <-eventCh:
			if !ok {
				ds.logger.Info().Msg("Docker events channel closed")
				return
			}

			evt, err := fromEventsMessage(msg)
			if err != nil {
				ds.logger.Debug().Err(err).Msg("Skipping docker event")
				continue
			}
			if !ds.queue.push(FormatLine(evt)) {
				return
			}
		}
	}
}

func (ds *DockerSource) PollLine(timeout time.Duration) (string, error) {
	if ds.queue == nil {
		return "", io.EOF
	}
	return ds.queue.poll(timeout)
}

func (ds *DockerSource) Alive() bool {
	if ds.done == nil {
		return false
	}
	select {
	case <-ds.done:
		return false
	default:
		return true
	}
}

func (ds *DockerSource) Terminate() error {
	if ds.cancel == nil {
		return nil
	}
	ds.cancel()
	ds.queue.abort()
	<-ds.done
	return nil
}
