package state

import (
	"sort"
	"sync"
	"time"

	"github.com/auto-dns/lxc-state-monitor/internal/domain"
)

// MemoryState stores the latest observed state per container.
type MemoryState struct {
	mu         sync.RWMutex
	containers map[string]*ContainerState
	now        func() time.Time
}

func NewMemoryState() *MemoryState {
	return &MemoryState{
		containers: make(map[string]*ContainerState),
		now:        time.Now,
	}
}

// Record stores state for the container and returns the state it replaces.
func (s *MemoryState) Record(containerName string, state domain.ContainerState) (previous domain.ContainerState, seen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, seen := s.containers[containerName]
	if !seen {
		cs = &ContainerState{ContainerName: containerName}
		s.containers[containerName] = cs
	}
	previous = cs.State
	cs.State = state
	cs.Transitions++
	cs.LastUpdated = s.now()
	return previous, seen
}

func (s *MemoryState) Get(containerName string) (ContainerState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.containers[containerName]
	if !ok {
		return ContainerState{}, false
	}
	return *cs, true
}

// Forget drops the container and reports whether it was tracked.
func (s *MemoryState) Forget(containerName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.containers[containerName]; exists {
		delete(s.containers, containerName)
		return true
	}
	return false
}

// All returns a snapshot sorted by container name.
func (s *MemoryState) All() []ContainerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	states := make([]ContainerState, 0, len(s.containers))
	for _, cs := range s.containers {
		states = append(states, *cs)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].ContainerName < states[j].ContainerName })
	return states
}
