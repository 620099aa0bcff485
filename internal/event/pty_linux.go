//go:build linux

package event

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// openPTY allocates a pseudo-terminal pair through the devpts interface.
// The slave has echo and NL->CRNL translation switched off so the master reads
// back exactly the lines the child wrote.
func openPTY() (master, slave *os.File, err error) {
	master, err = os.OpenFile("/dev/ptmx", os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("open /dev/ptmx: %w", err)
	}

	// Control keeps the master registered with the runtime poller, unlike Fd(),
	// so Close unblocks a pending Read.
	var ptyNumber int
	var ioctlErr error
	conn, err := master.SyscallConn()
	if err != nil {
		master.Close()
		return nil, nil, fmt.Errorf("pty syscall conn: %w", err)
	}
	err = conn.Control(func(fd uintptr) {
		ptyNumber, ioctlErr = unix.IoctlGetInt(int(fd), unix.TIOCGPTN)
		if ioctlErr != nil {
			ioctlErr = fmt.Errorf("get PTY number (TIOCGPTN): %w", ioctlErr)
			return
		}
		if ioctlErr = unix.IoctlSetPointerInt(int(fd), unix.TIOCSPTLCK, 0); ioctlErr != nil {
			ioctlErr = fmt.Errorf("unlock PTY slave (TIOCSPTLCK): %w", ioctlErr)
		}
	})
	if err == nil {
		err = ioctlErr
	}
	if err != nil {
		master.Close()
		return nil, nil, err
	}

	slavePath := fmt.Sprintf("/dev/pts/%d", ptyNumber)
	slave, err = os.OpenFile(slavePath, os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		master.Close()
		return nil, nil, fmt.Errorf("open %s: %w", slavePath, err)
	}

	if err := configureSlave(slave); err != nil {
		master.Close()
		slave.Close()
		return nil, nil, err
	}
	return master, slave, nil
}

func configureSlave(slave *os.File) error {
	fd := int(slave.Fd())
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("get slave termios: %w", err)
	}
	termios.Lflag &^= unix.ECHO
	termios.Oflag &^= unix.ONLCR
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("set slave termios: %w", err)
	}
	return nil
}

// sessionAttr detaches the monitor from our controlling terminal so a Ctrl-C
// reaches us first and the child is stopped through Terminate.
func sessionAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
