package monitor

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto-dns/lxc-state-monitor/internal/domain"
)

func noopHandler(domain.ContainerState) {}

func TestRegistry_AddRejectsDuplicateAndKeepsFirstHandler(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var got []string
	first := func(s domain.ContainerState) { got = append(got, "first:"+string(s)) }
	second := func(s domain.ContainerState) { got = append(got, "second:"+string(s)) }

	require.NoError(t, r.Add("web1", first))

	err := r.Add("web1", second)
	var already *AlreadyMonitoredError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, "web1", already.Name)

	h, ok := r.Lookup("web1")
	require.True(t, ok)
	h(domain.StateRunning)
	assert.Equal(t, []string{"first:RUNNING"}, got)
}

func TestRegistry_RemoveUnknownName(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	err := r.Remove("web1")
	var notMonitored *NotMonitoredError
	require.ErrorAs(t, err, &notMonitored)

	require.NoError(t, r.Add("web1", noopHandler))
	require.NoError(t, r.Remove("web1"))
	assert.False(t, r.IsMonitored("web1"))
	require.ErrorAs(t, r.Remove("web1"), &notMonitored)
}

func TestRegistry_NamesAndClear(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	for _, name := range []string{"web2", "db", "web1"} {
		require.NoError(t, r.Add(name, noopHandler))
	}
	assert.Equal(t, []string{"db", "web1", "web2"}, r.Names())
	assert.Equal(t, 3, r.Len())

	r.Clear()
	assert.Empty(t, r.Names())
	_, ok := r.Lookup("db")
	assert.False(t, ok)
}

func TestRegistry_ConcurrentAddSameNameHasOneWinner(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	const callers = 32

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- r.Add("web1", noopHandler)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ConcurrentLookupsDuringMutation(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		name := fmt.Sprintf("c%d", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.Add(name, noopHandler)
				_ = r.Remove(name)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Lookup(name)
				r.Names()
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, r.Len())
}
