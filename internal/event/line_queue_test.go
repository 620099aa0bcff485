package event

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineQueue_PollTimesOutThenDeliversInOrder(t *testing.T) {
	t.Parallel()

	q := newLineQueue(4)

	_, err := q.poll(10 * time.Millisecond)
	require.ErrorIs(t, err, ErrWouldBlock)

	require.True(t, q.push("first"))
	require.True(t, q.push("second"))
	q.end()

	line, err := q.poll(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = q.poll(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = q.poll(time.Second)
	require.ErrorIs(t, err, io.EOF)
}

func TestLineQueue_AbortReleasesBlockedProducer(t *testing.T) {
	t.Parallel()

	q := newLineQueue(1)
	require.True(t, q.push("fills the buffer"))

	pushed := make(chan bool, 1)
	go func() { pushed <- q.push("blocked") }()

	q.abort()
	q.abort()

	select {
	case ok := <-pushed:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("producer stayed blocked after abort")
	}
}
