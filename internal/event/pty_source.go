package event

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

const (
	terminateGrace = 2 * time.Second
	// maxLineLength bounds a single monitor line; longer lines are dropped.
	maxLineLength = 64 * 1024
)

// PTYSource runs an external monitor command with its output attached to a
// pseudo-terminal. Tools like lxc-monitor only line-buffer when stdout is a
// terminal; on a plain pipe their events can sit in a buffer indefinitely.
type PTYSource struct {
	logger  zerolog.Logger
	command string
	args    []string

	cmd    *exec.Cmd
	master *os.File
	queue  *lineQueue
	exited chan struct{}

	terminateOnce sync.Once
	terminateErr  error
}

func NewPTYSource(command string, args []string, logger zerolog.Logger) *PTYSource {
	return &PTYSource{
		logger:  logger,
		command: command,
		args:    args,
	}
}

// NewLXCMonitorSource watches every container matching pattern (".*" for all).
func NewLXCMonitorSource(command, pattern string, logger zerolog.Logger) *PTYSource {
	return NewPTYSource(command, []string{"-n", pattern}, logger)
}

func (s *PTYSource) Start(ctx context.Context) error {
	if s.cmd != nil {
		return errors.New("monitor process already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	master, slave, err := openPTY()
	if err != nil {
		return fmt.Errorf("allocate pty: %w", err)
	}

	cmd := exec.Command(s.command, s.args...)
	cmd.Stdout = slave
	cmd.Stderr = slave
	cmd.SysProcAttr = sessionAttr()
	if err := cmd.Start(); err != nil {
		master.Close()
		slave.Close()
		return fmt.Errorf("start %s: %w", s.command, err)
	}
	// The child has its own copy; ours would keep the master readable after the child exits.
	slave.Close()

	s.cmd = cmd
	s.master = master
	s.queue = newLineQueue(lineBufferSize)
	s.exited = make(chan struct{})

	go s.readLines()
	go s.wait()

	s.logger.Info().Str("command", cmd.String()).Int("pid", cmd.Process.Pid).Msg("Started monitor process")
	return nil
}

func (s *PTYSource) PollLine(timeout time.Duration) (string, error) {
	if s.queue == nil {
		return "", io.EOF
	}
	return s.queue.poll(timeout)
}

func (s *PTYSource) Alive() bool {
	if s.exited == nil {
		return false
	}
	select {
	case <-s.exited:
		return false
	default:
		return true
	}
}

func (s *PTYSource) Terminate() error {
	s.terminateOnce.Do(func() {
		s.terminateErr = s.terminate()
	})
	return s.terminateErr
}

func (s *PTYSource) terminate() error {
	if s.cmd == nil {
		return nil
	}
	s.queue.abort()

	if err := s.cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Debug().Err(err).Msg("Signalling monitor process")
	}

	timer := time.NewTimer(terminateGrace)
	defer timer.Stop()
	select {
	case <-s.exited:
	case <-timer.C:
		s.logger.Warn().Int("pid", s.cmd.Process.Pid).Msg("Monitor process ignored SIGTERM, killing it")
		if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("kill monitor process: %w", err)
		}
		<-s.exited
	}

	if err := s.master.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("close pty: %w", err)
	}
	s.logger.Info().Msg("Monitor process stopped")
	return nil
}

func (s *PTYSource) readLines() {
	defer s.queue.end()

	reader := bufio.NewReader(s.master)
	var (
		line      []byte
		oversized bool
	)
	for {
		chunk, isPrefix, err := reader.ReadLine()
		if err != nil {
			// Linux reports EIO on the master once every slave descriptor is closed.
			if !errors.Is(err, io.EOF) && !errors.Is(err, syscall.EIO) && !errors.Is(err, os.ErrClosed) {
				s.logger.Warn().Err(err).Msg("Reading monitor output failed")
			}
			return
		}
		if !oversized {
			line = append(line, chunk...)
			oversized = len(line) > maxLineLength
		}
		if isPrefix {
			continue
		}

		if oversized {
			s.logger.Warn().Int("limit", maxLineLength).Msg("Dropping over-long monitor line")
		} else if !s.queue.push(strings.TrimRight(string(line), "\r")) {
			return
		}
		line = line[:0]
		oversized = false
	}
}

func (s *PTYSource) wait() {
	err := s.cmd.Wait()
	close(s.exited)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Monitor process exited")
	}
}
