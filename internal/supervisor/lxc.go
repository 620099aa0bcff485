package supervisor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w (%s)", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// LXC enumerates containers with lxc-list, whose output groups names under
// RUNNING, FROZEN and STOPPED headers.
type LXC struct {
	logger      zerolog.Logger
	listCommand string
	run         commandRunner
}

func NewLXC(listCommand string, logger zerolog.Logger) *LXC {
	return &LXC{
		logger:      logger,
		listCommand: listCommand,
		run:         runCommand,
	}
}

func (l *LXC) List(ctx context.Context) (Listing, error) {
	out, err := l.run(ctx, l.listCommand)
	if err != nil {
		return Listing{}, err
	}
	listing, err := parseLXCList(out)
	if err != nil {
		return Listing{}, err
	}
	l.logger.Debug().Int("running", len(listing.Running)).Int("stopped", len(listing.Stopped)).Msg("Listed LXC containers")
	return listing, nil
}

func (l *LXC) Exists(ctx context.Context, name string) (bool, error) {
	listing, err := l.List(ctx)
	if err != nil {
		return false, err
	}
	return listing.Exists(name), nil
}

func (l *LXC) Running(ctx context.Context, name string) (bool, error) {
	listing, err := l.List(ctx)
	if err != nil {
		return false, err
	}
	return listing.IsRunning(name), nil
}

func parseLXCList(out []byte) (Listing, error) {
	var listing Listing
	var current *[]string

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "RUNNING":
			current = &listing.Running
			continue
		case "FROZEN":
			current = &listing.Frozen
			continue
		case "STOPPED":
			current = &listing.Stopped
			continue
		}
		if current == nil {
			return Listing{}, fmt.Errorf("unexpected lxc-list line %q before a section header", line)
		}
		*current = append(*current, line)
	}
	if err := scanner.Err(); err != nil {
		return Listing{}, fmt.Errorf("read lxc-list output: %w", err)
	}
	return listing, nil
}
