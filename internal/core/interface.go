package core

import (
	"context"

	"github.com/auto-dns/lxc-state-monitor/internal/domain"
	"github.com/auto-dns/lxc-state-monitor/internal/monitor"
	"github.com/auto-dns/lxc-state-monitor/internal/supervisor"
)

type containerMonitor interface {
	Monitor(ctx context.Context, name string, handler monitor.Handler) error
	Stop() error
	Monitored() []string
}

type containerLister interface {
	List(ctx context.Context) (supervisor.Listing, error)
}

// StatePublisher receives every recorded state. Neither method may block.
type StatePublisher interface {
	Publish(containerName string, state domain.ContainerState)
	Remove(containerName string)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, domain.ContainerState) {}
func (nopPublisher) Remove(string)                         {}
