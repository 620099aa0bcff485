package state

import (
	"time"

	"github.com/auto-dns/lxc-state-monitor/internal/domain"
)

// ContainerState is the last state observed for one container.
type ContainerState struct {
	ContainerName string
	State         domain.ContainerState
	Transitions   int
	LastUpdated   time.Time
}
