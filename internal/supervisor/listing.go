package supervisor

import "slices"

// Listing groups the containers known to a supervisor by run state.
type Listing struct {
	Running []string
	Frozen  []string
	Stopped []string
}

func (l Listing) All() []string {
	all := make([]string, 0, len(l.Running)+len(l.Frozen)+len(l.Stopped))
	all = append(all, l.Running...)
	all = append(all, l.Frozen...)
	return append(all, l.Stopped...)
}

func (l Listing) Exists(name string) bool {
	return slices.Contains(l.All(), name)
}

func (l Listing) IsRunning(name string) bool {
	return slices.Contains(l.Running, name)
}
