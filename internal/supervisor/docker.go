package supervisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/rs/zerolog"
)

type containerLister interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// Docker answers the same questions as LXC from the Docker daemon's container list.
type Docker struct {
	logger zerolog.Logger
	cli    containerLister
}

func NewDocker(cli containerLister, logger zerolog.Logger) *Docker {
	return &Docker{
		logger: logger,
		cli:    cli,
	}
}

func (d *Docker) List(ctx context.Context) (Listing, error) {
	containers, err := d.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return Listing{}, fmt.Errorf("list docker containers: %w", err)
	}

	var listing Listing
	for _, c := range containers {
		if len(c.Names) == 0 {
			continue
		}
		name := strings.TrimPrefix(c.Names[0], "/")
		switch c.State {
		case "running":
			listing.Running = append(listing.Running, name)
		case "paused":
			listing.Frozen = append(listing.Frozen, name)
		default:
			listing.Stopped = append(listing.Stopped, name)
		}
	}
	d.logger.Debug().Int("running", len(listing.Running)).Int("frozen", len(listing.Frozen)).Int("stopped", len(listing.Stopped)).Msg("Listed Docker containers")
	return listing, nil
}

func (d *Docker) Exists(ctx context.Context, name string) (bool, error) {
	listing, err := d.List(ctx)
	if err != nil {
		return false, err
	}
	return listing.Exists(name), nil
}

func (d *Docker) Running(ctx context.Context, name string) (bool, error) {
	listing, err := d.List(ctx)
	if err != nil {
		return false, err
	}
	return listing.IsRunning(name), nil
}
