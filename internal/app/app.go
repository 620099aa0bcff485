package app

import (
	"context"
	"fmt"
	"time"

	"github.com/auto-dns/lxc-state-monitor/internal/config"
	"github.com/auto-dns/lxc-state-monitor/internal/core"
	"github.com/auto-dns/lxc-state-monitor/internal/event"
	"github.com/auto-dns/lxc-state-monitor/internal/monitor"
	"github.com/auto-dns/lxc-state-monitor/internal/state"
	"github.com/auto-dns/lxc-state-monitor/internal/statestore"
	"github.com/auto-dns/lxc-state-monitor/internal/supervisor"
	dockerCli "github.com/docker/docker/client"
	"github.com/rs/zerolog"
	clientv3 "go.etcd.io/etcd/client/v3"
)

type inspector interface {
	monitor.Inspector
	List(ctx context.Context) (supervisor.Listing, error)
}

type App struct {
	dockerClient *dockerCli.Client
	etcdClient   *clientv3.Client
	inspector    inspector
	manager      *monitor.Manager
	engine       *core.WatchEngine
	store        *statestore.EtcdStore
	publisher    *statestore.Publisher
	logger       zerolog.Logger
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// New creates a new App by wiring up all dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{logger: logger}

	var newSource monitor.SourceFactory
	switch cfg.App.Backend {
	case config.BackendDocker:
		dockerClient, err := dockerCli.NewClientWithOpts(dockerCli.FromEnv, dockerCli.WithAPIVersionNegotiation())
		if err != nil {
			return nil, fmt.Errorf("failed to create docker client: %w", err)
		}
		a.dockerClient = dockerClient
		a.inspector = supervisor.NewDocker(dockerClient, logger)
		newSource = func() event.LineSource {
			return event.NewDockerSource(dockerClient, logger)
		}
	default:
		a.inspector = supervisor.NewLXC(cfg.LXC.ListCommand, logger)
		newSource = func() event.LineSource {
			return event.NewLXCMonitorSource(cfg.LXC.MonitorCommand, cfg.LXC.MonitorPattern, logger)
		}
	}

	// etcd CLI
	if cfg.Etcd.Enabled {
		etcdClient, err := clientv3.New(clientv3.Config{
			Endpoints:   []string{cfg.Etcd.Endpoint()},
			DialTimeout: seconds(cfg.Etcd.DialTimeout),
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to etcd: %w", err)
		}
		a.etcdClient = etcdClient
		a.store = statestore.NewEtcdStore(etcdClient, &cfg.Etcd, logger)
		a.publisher = statestore.NewPublisher(a.store, cfg.App.Hostname, cfg.Etcd.PublishBuffer, logger)
	}

	// The exit handler runs on the dispatch goroutine and must not block.
	exited := make(chan error, 1)
	a.manager = monitor.NewManager(newSource, a.inspector, logger, monitor.WithExitHandler(func(err error, stop func() error) {
		if stopErr := stop(); stopErr != nil {
			logger.Warn().Err(stopErr).Msg("Cleaning up exited watcher")
		}
		select {
		case exited <- err:
		default:
		}
	}))

	// Engine
	var publisher core.StatePublisher
	if a.publisher != nil {
		publisher = a.publisher
	}
	a.engine = core.NewWatchEngine(logger, &cfg.App, a.manager, a.inspector, state.NewMemoryState(), publisher, exited)

	return a, nil
}

// Run watches containers until ctx is cancelled or the watcher exits.
func (a *App) Run(ctx context.Context, containers []string) error {
	a.logger.Info().Msg("Application starting")
	if a.publisher == nil {
		return a.engine.Run(ctx, containers)
	}

	pubCtx, cancel := context.WithCancel(ctx)
	pubDone := make(chan struct{})
	go func() {
		defer close(pubDone)
		if err := a.publisher.Run(pubCtx); err != nil {
			a.logger.Error().Err(err).Msg("State publisher stopped")
		}
	}()
	err := a.engine.Run(ctx, containers)
	cancel()
	<-pubDone
	return err
}

// List returns the containers known to the configured supervisor.
func (a *App) List(ctx context.Context) (supervisor.Listing, error) {
	return a.inspector.List(ctx)
}

// Status returns the states mirrored in etcd.
func (a *App) Status(ctx context.Context) ([]statestore.StateRecord, error) {
	if a.store == nil {
		return nil, fmt.Errorf("status requires etcd.enabled")
	}
	return a.store.List(ctx)
}

func (a *App) Close() error {
	var firstErr error
	if a.dockerClient != nil {
		if err := a.dockerClient.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close docker client: %w", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close etcd client: %w", err)
		}
	} else if a.etcdClient != nil {
		if err := a.etcdClient.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close etcd client: %w", err)
		}
	}
	return firstErr
}
