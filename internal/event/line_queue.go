package event

import (
	"io"
	"sync"
	"time"
)

const lineBufferSize = 100

// lineQueue hands lines from a producer goroutine to a polling consumer.
type lineQueue struct {
	lines     chan string
	closing   chan struct{}
	endOnce   sync.Once
	abortOnce sync.Once
}

func newLineQueue(size int) *lineQueue {
	return &lineQueue{
		lines:   make(chan string, size),
		closing: make(chan struct{}),
	}
}

// push blocks until the line is queued. It returns false once the queue was aborted.
func (q *lineQueue) push(line string) bool {
	select {
	case q.lines <- line:
		return true
	case <-q.closing:
		return false
	}
}

// end marks the stream as finished. Only the producer calls it.
func (q *lineQueue) end() {
	q.endOnce.Do(func() { close(q.lines) })
}

// abort releases a producer blocked in push.
func (q *lineQueue) abort() {
	q.abortOnce.Do(func() { close(q.closing) })
}

func (q *lineQueue) poll(timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case line, ok := <-q.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-timer.C:
		return "", ErrWouldBlock
	}
}
