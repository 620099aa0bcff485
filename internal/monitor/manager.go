package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/auto-dns/lxc-state-monitor/internal/event"
)

// pollInterval bounds both shutdown latency and idle wakeups of the dispatch loop.
const pollInterval = 100 * time.Millisecond

type Option func(*Manager)

// ExitHandler is called from the dispatch goroutine when the event stream ends
// on its own. stop tears down that exited watcher and clears the registry; it is
// a no-op once a newer watcher has replaced it. Without stop, the next Monitor
// call starts a fresh watcher and keeps the registrations.
type ExitHandler func(err error, stop func() error)

func WithExitHandler(fn ExitHandler) Option {
	return func(m *Manager) {
		m.onExit = fn
	}
}

type watcher struct {
	source   event.LineSource
	cancel   context.CancelFunc
	done     chan struct{}
	signals  chan os.Signal
	released chan struct{}
}

// Manager owns at most one watcher and the registry of container handlers.
// The watcher is started by the first Monitor call and runs until Stop or a
// termination signal.
type Manager struct {
	logger    zerolog.Logger
	newSource SourceFactory
	inspector Inspector
	registry  *Registry
	signals   []os.Signal
	notify    func(c chan<- os.Signal, sig ...os.Signal)
	release   func(c chan<- os.Signal)
	onExit    ExitHandler

	// mu serializes watcher start and stop.
	mu      sync.Mutex
	watcher *watcher
}

func NewManager(newSource SourceFactory, inspector Inspector, logger zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		logger:    logger,
		newSource: newSource,
		inspector: inspector,
		registry:  NewRegistry(),
		signals:   []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		notify:    signal.Notify,
		release:   signal.Stop,
		onExit:    func(error, func() error) {},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Monitor registers handler for every state change of the named container,
// starting the watcher if none is running.
func (m *Manager) Monitor(ctx context.Context, name string, handler Handler) error {
	if handler == nil {
		return errors.New("monitor: nil handler")
	}
	if err := m.requireExists(ctx, name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registry.IsMonitored(name) {
		return NewAlreadyMonitoredError(name)
	}
	if err := m.ensureStarted(); err != nil {
		return err
	}
	if err := m.registry.Add(name, handler); err != nil {
		return err
	}
	m.logger.Info().Str("container", name).Msg("Monitoring container")
	return nil
}

// Unmonitor removes the container's handler. The watcher keeps running even
// when no container is left.
func (m *Manager) Unmonitor(ctx context.Context, name string) error {
	if err := m.requireExists(ctx, name); err != nil {
		return err
	}
	if err := m.registry.Remove(name); err != nil {
		return err
	}
	m.logger.Info().Str("container", name).Msg("Stopped monitoring container")
	return nil
}

// Stop terminates the watcher, waits for the dispatch loop and clears every
// registration. It is a no-op when no watcher is running.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked(m.watcher)
}

func (m *Manager) IsMonitored(name string) bool {
	return m.registry.IsMonitored(name)
}

func (m *Manager) Monitored() []string {
	return m.registry.Names()
}

// Active reports whether a watcher exists and its dispatch loop is still running.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watcher == nil {
		return false
	}
	select {
	case <-m.watcher.done:
		return false
	default:
		return true
	}
}

func (m *Manager) requireExists(ctx context.Context, name string) error {
	exists, err := m.inspector.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("check container %s: %w", name, err)
	}
	if !exists {
		return NewContainerNotExistsError(name)
	}
	return nil
}

// ensureStarted must be called with mu held.
func (m *Manager) ensureStarted() error {
	if w := m.watcher; w != nil {
		select {
		case <-w.done:
			m.logger.Info().Msg("Restarting monitor watcher after it exited")
			if err := m.teardown(w); err != nil {
				m.logger.Warn().Err(err).Msg("Cleaning up exited watcher")
			}
			m.watcher = nil
		default:
			return nil
		}
	}

	source := m.newSource()
	// The watcher outlives the Monitor call that created it.
	ctx, cancel := context.WithCancel(context.Background())
	if err := source.Start(ctx); err != nil {
		cancel()
		return NewSpawnError(err)
	}

	w := &watcher{
		source:   source,
		cancel:   cancel,
		done:     make(chan struct{}),
		signals:  make(chan os.Signal, 1),
		released: make(chan struct{}),
	}
	m.watcher = w

	go m.dispatch(ctx, w)

	m.notify(w.signals, m.signals...)
	go m.awaitSignal(w)

	m.logger.Info().Msg("Monitor watcher started")
	return nil
}

// stopLocked stops w if it is still the current watcher. Must be called with mu held.
func (m *Manager) stopLocked(w *watcher) error {
	if w == nil || w != m.watcher {
		return nil
	}
	err := m.teardown(w)
	m.watcher = nil
	m.registry.Clear()
	m.logger.Info().Msg("Monitor watcher stopped")
	return err
}

func (m *Manager) teardown(w *watcher) error {
	w.cancel()
	err := w.source.Terminate()
	<-w.done
	m.release(w.signals)
	close(w.released)
	if err != nil {
		return fmt.Errorf("terminate monitor watcher: %w", err)
	}
	return nil
}

// awaitSignal turns a termination signal into a regular Stop of w.
func (m *Manager) awaitSignal(w *watcher) {
	select {
	case sig := <-w.signals:
		m.logger.Info().Msgf("Received signal: %v", sig)
		m.mu.Lock()
		err := m.stopLocked(w)
		m.mu.Unlock()
		if err != nil {
			m.logger.Error().Err(err).Msg("Stopping monitor after signal")
		}
	case <-w.released:
	}
}

func (m *Manager) dispatch(ctx context.Context, w *watcher) {
	err := m.run(ctx, w.source)
	close(w.done)

	if ctx.Err() != nil {
		return
	}
	m.logger.Error().Err(err).Msg("Monitor watcher exited unexpectedly")
	m.onExit(err, func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.stopLocked(w)
	})
}

func (m *Manager) run(ctx context.Context, source event.LineSource) error {
	for ctx.Err() == nil {
		line, err := source.PollLine(pollInterval)
		switch {
		case errors.Is(err, event.ErrWouldBlock):
			if !source.Alive() {
				return ErrWatcherExited
			}
			continue
		case errors.Is(err, io.EOF):
			return ErrWatcherExited
		case err != nil:
			return fmt.Errorf("%w: %w", ErrWatcherExited, err)
		}
		m.dispatchLine(line)
	}
	return nil
}

func (m *Manager) dispatchLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	evt, err := event.ParseLine(line)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Skipping unparseable monitor line")
		return
	}
	handler, ok := m.registry.Lookup(evt.Name)
	if !ok {
		m.logger.Debug().Str("container", evt.Name).Str("state", string(evt.State)).Msg("Ignoring event for unmonitored container")
		return
	}
	handler(evt.State)
}
