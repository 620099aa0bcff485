package domain

import "fmt"

// ContainerState is the state token reported by the container supervisor.
// Handlers decide what a given token means; the monitor passes it through untouched.
type ContainerState string

const (
	StateStopped  ContainerState = "STOPPED"
	StateStarting ContainerState = "STARTING"
	StateRunning  ContainerState = "RUNNING"
	StateStopping ContainerState = "STOPPING"
	StateAborting ContainerState = "ABORTING"
	StateFreezing ContainerState = "FREEZING"
	StateFrozen   ContainerState = "FROZEN"
	StateThawed   ContainerState = "THAWED"
)

func (cs ContainerState) IsKnown() bool {
	switch cs {
	case StateStopped,
		StateStarting,
		StateRunning,
		StateStopping,
		StateAborting,
		StateFreezing,
		StateFrozen,
		StateThawed:
		return true
	}
	return false
}

// StateEvent is one parsed state transition of a single container.
type StateEvent struct {
	Name  string
	State ContainerState
}

func (e StateEvent) String() string {
	return fmt.Sprintf("%s -> %s", e.Name, e.State)
}
