package core

import (
	"context"
	"fmt"
	"slices"

	"github.com/auto-dns/lxc-state-monitor/internal/config"
	"github.com/auto-dns/lxc-state-monitor/internal/domain"
	"github.com/auto-dns/lxc-state-monitor/internal/monitor"
	"github.com/auto-dns/lxc-state-monitor/internal/state"
	"github.com/auto-dns/lxc-state-monitor/internal/supervisor"
	"github.com/rs/zerolog"
)

// WatchEngine registers containers with the monitor, records every observed
// transition and forwards it to the publisher.
type WatchEngine struct {
	logger    zerolog.Logger
	cfg       *config.AppConfig
	monitor   containerMonitor
	lister    containerLister
	tracker   *state.MemoryState
	publisher StatePublisher
	exited    <-chan error
}

// NewWatchEngine builds an engine. publisher may be nil; exited receives the
// monitor's exit notifications.
func NewWatchEngine(logger zerolog.Logger, cfg *config.AppConfig, mon containerMonitor, lister containerLister, tracker *state.MemoryState, publisher StatePublisher, exited <-chan error) *WatchEngine {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &WatchEngine{
		logger:    logger,
		cfg:       cfg,
		monitor:   mon,
		lister:    lister,
		tracker:   tracker,
		publisher: publisher,
		exited:    exited,
	}
}

func initialState(listing supervisor.Listing, name string) (domain.ContainerState, bool) {
	switch {
	case slices.Contains(listing.Running, name):
		return domain.StateRunning, true
	case slices.Contains(listing.Frozen, name):
		return domain.StateFrozen, true
	case slices.Contains(listing.Stopped, name):
		return domain.StateStopped, true
	}
	return "", false
}

func (we *WatchEngine) prepopulateState(ctx context.Context, names []string) error {
	listing, err := we.lister.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		st, ok := initialState(listing, name)
		if !ok {
			continue
		}
		we.tracker.Record(name, st)
		we.publisher.Publish(name, st)
		we.logger.Info().Str("container", name).Str("state", string(st)).Msg("Prepopulated container state")
	}
	return nil
}

func (we *WatchEngine) handlerFor(name string) monitor.Handler {
	return func(st domain.ContainerState) {
		prev, seen := we.tracker.Record(name, st)
		evt := we.logger.Info()
		if !st.IsKnown() {
			evt = we.logger.Debug()
		}
		if seen {
			evt = evt.Str("from", string(prev))
		}
		evt.Str("container", name).Str("to", string(st)).Msg("Container changed state")
		we.publisher.Publish(name, st)
	}
}

func (we *WatchEngine) containers(names []string) []string {
	if len(names) == 0 {
		names = we.cfg.Containers
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name != "" && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// Run monitors names (or the configured containers when names is empty) until
// ctx is cancelled or the watcher exits on its own.
func (we *WatchEngine) Run(ctx context.Context, names []string) error {
	names = we.containers(names)
	if len(names) == 0 {
		return ErrNoContainers
	}
	we.logger.Info().Strs("containers", names).Msg("Starting WatchEngine")

	if err := we.prepopulateState(ctx, names); err != nil {
		we.logger.Error().Err(err).Msg("Error during state prepopulation")
	}

	failed := make(map[string]error)
	for _, name := range names {
		if err := we.monitor.Monitor(ctx, name, we.handlerFor(name)); err != nil {
			we.logger.Error().Err(err).Str("container", name).Msg("Could not monitor container")
			failed[name] = err
		}
	}
	if len(failed) == len(names) {
		if err := we.monitor.Stop(); err != nil {
			we.logger.Error().Err(err).Msg("Error stopping monitor")
		}
		return NewRegistrationError(failed)
	}

	watched := we.monitor.Monitored()
	we.logger.Info().Strs("containers", watched).Msg("Watching containers")

	select {
	case <-ctx.Done():
		we.logger.Info().Msg("WatchEngine shutting down")
		err := we.monitor.Stop()
		we.release(watched)
		if err != nil {
			return fmt.Errorf("stop monitor: %w", err)
		}
		return nil
	case err := <-we.exited:
		if stopErr := we.monitor.Stop(); stopErr != nil {
			we.logger.Error().Err(stopErr).Msg("Error stopping monitor")
		}
		we.release(watched)
		return fmt.Errorf("monitor watcher exited: %w", err)
	}
}

// release logs the final state of each watched container and drops it from
// the tracker and the published mirror.
func (we *WatchEngine) release(names []string) {
	for _, cs := range we.tracker.All() {
		we.logger.Info().
			Str("container", cs.ContainerName).
			Str("state", string(cs.State)).
			Int("transitions", cs.Transitions).
			Msg("Final container state")
	}
	for _, name := range names {
		we.tracker.Forget(name)
		we.publisher.Remove(name)
	}
}
