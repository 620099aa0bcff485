package statestore

import (
	"context"
	"time"

	"github.com/auto-dns/lxc-state-monitor/internal/domain"
	"github.com/rs/zerolog"
)

type stateWriter interface {
	Put(ctx context.Context, rec StateRecord) error
	Delete(ctx context.Context, hostname, containerName string) error
}

type publishOp struct {
	rec    StateRecord
	remove bool
}

// Publisher queues state changes and writes them from its own goroutine, so a
// slow etcd never blocks the monitor's dispatch loop.
type Publisher struct {
	store    stateWriter
	hostname string
	logger   zerolog.Logger
	queue    chan publishOp
	now      func() time.Time
}

func NewPublisher(store stateWriter, hostname string, bufferSize int, logger zerolog.Logger) *Publisher {
	return &Publisher{
		store:    store,
		hostname: hostname,
		logger:   logger,
		queue:    make(chan publishOp, bufferSize),
		now:      time.Now,
	}
}

// Publish never blocks; when the queue is full the state is dropped and logged.
func (p *Publisher) Publish(containerName string, state domain.ContainerState) {
	p.enqueue(publishOp{rec: StateRecord{
		Hostname:      p.hostname,
		ContainerName: containerName,
		State:         state,
		Updated:       p.now(),
	}})
}

// Remove queues deletion of the container's mirrored state, behind any pending writes.
func (p *Publisher) Remove(containerName string) {
	p.enqueue(publishOp{
		rec:    StateRecord{Hostname: p.hostname, ContainerName: containerName},
		remove: true,
	})
}

func (p *Publisher) enqueue(op publishOp) {
	select {
	case p.queue <- op:
	default:
		p.logger.Warn().Str("container", op.rec.ContainerName).Bool("remove", op.remove).Msg("Publish queue full, dropping update")
	}
}

// Run applies queued updates in order until ctx is cancelled, then flushes
// whatever is still queued.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.flush(context.WithoutCancel(ctx))
			return nil
		case op := <-p.queue:
			p.apply(ctx, op)
		}
	}
}

func (p *Publisher) flush(ctx context.Context) {
	for {
		select {
		case op := <-p.queue:
			p.apply(ctx, op)
		default:
			return
		}
	}
}

func (p *Publisher) apply(ctx context.Context, op publishOp) {
	if op.remove {
		if err := p.store.Delete(ctx, op.rec.Hostname, op.rec.ContainerName); err != nil {
			p.logger.Error().Err(err).Str("container", op.rec.ContainerName).Msg("Removing state")
		}
		return
	}
	if err := p.store.Put(ctx, op.rec); err != nil {
		p.logger.Error().Err(err).Str("container", op.rec.ContainerName).Msg("Publishing state")
	}
}
