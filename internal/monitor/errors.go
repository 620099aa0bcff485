package monitor

import (
	"errors"
	"fmt"
)

// ErrWatcherExited is passed to the exit handler when the event stream ends
// without Stop having been called.
var ErrWatcherExited = errors.New("monitor watcher exited")

type ContainerNotExistsError struct {
	Name string
}

func NewContainerNotExistsError(name string) *ContainerNotExistsError {
	return &ContainerNotExistsError{Name: name}
}

func (e *ContainerNotExistsError) Error() string {
	return fmt.Sprintf("container %s does not exist", e.Name)
}

type AlreadyMonitoredError struct {
	Name string
}

func NewAlreadyMonitoredError(name string) *AlreadyMonitoredError {
	return &AlreadyMonitoredError{Name: name}
}

func (e *AlreadyMonitoredError) Error() string {
	return fmt.Sprintf("container %s is already monitored", e.Name)
}

type NotMonitoredError struct {
	Name string
}

func NewNotMonitoredError(name string) *NotMonitoredError {
	return &NotMonitoredError{Name: name}
}

func (e *NotMonitoredError) Error() string {
	return fmt.Sprintf("container %s is not monitored", e.Name)
}

// SpawnError reports that the event source could not be started.
type SpawnError struct {
	Err error
}

func NewSpawnError(err error) *SpawnError {
	return &SpawnError{Err: err}
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn monitor watcher: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
