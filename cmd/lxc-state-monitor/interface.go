package main

import (
	"context"

	"github.com/auto-dns/lxc-state-monitor/internal/statestore"
	"github.com/auto-dns/lxc-state-monitor/internal/supervisor"
)

type application interface {
	Run(ctx context.Context, containers []string) error
	List(ctx context.Context) (supervisor.Listing, error)
	Status(ctx context.Context) ([]statestore.StateRecord, error)
	Close() error
}
