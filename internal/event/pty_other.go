//go:build !linux

package event

import (
	"os"
	"syscall"
)

func openPTY() (master, slave *os.File, err error) {
	return nil, nil, ErrPTYUnsupported
}

func sessionAttr() *syscall.SysProcAttr {
	return nil
}
