package monitor

import (
	"context"

	"github.com/auto-dns/lxc-state-monitor/internal/domain"
	"github.com/auto-dns/lxc-state-monitor/internal/event"
)

// Handler receives every state a monitored container reports, in order.
//
// Handlers run on the dispatch goroutine and block it until they return, so
// they should be quick or hand work to another goroutine. A handler may call
// Unmonitor, but must not call Monitor or Stop directly.
type Handler func(state domain.ContainerState)

// SourceFactory builds a fresh, unstarted event source for each watcher.
type SourceFactory func() event.LineSource

// Inspector answers existence questions about containers on the supervisor.
type Inspector interface {
	Exists(ctx context.Context, name string) (bool, error)
	Running(ctx context.Context, name string) (bool, error)
}
