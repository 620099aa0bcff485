package event

import (
	"errors"

	"github.com/auto-dns/lxc-state-monitor/internal/domain"
	"github.com/docker/docker/api/types/events"
)

// Docker reports "kill" and "stop" around every "die"; only "die" marks the
// container as stopped so each transition is delivered once.
var dockerActionStates = map[events.Action]domain.ContainerState{
	events.ActionStart:   domain.StateRunning,
	events.ActionDie:     domain.StateStopped,
	events.ActionPause:   domain.StateFrozen,
	events.ActionUnPause: domain.StateThawed,
}

func fromEventsMessage(msg events.Message) (domain.StateEvent, error) {
	state, ok := dockerActionStates[msg.Action]
	if !ok {
		return domain.StateEvent{}, NewUnsupportedActionError(string(msg.Action))
	}
	name := msg.Actor.Attributes["name"]
	if name == "" {
		return domain.StateEvent{}, errors.New("docker event without container name")
	}
	return domain.StateEvent{Name: name, State: state}, nil
}
