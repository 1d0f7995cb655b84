//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// disableEcho turns off terminal echo on file and returns a func restoring
// the previous mode.
func disableEcho(file *os.File) (func(), error) {
	if file == nil {
		return nil, errors.New("stdin unavailable")
	}

	fd := int(file.Fd())
	termios, err := unix.IoctlGetTermios(fd, getTermiosRequest)
	if err != nil {
		return nil, fmt.Errorf("stdin is not a terminal: %w", err)
	}
	original := *termios
	silent := original
	silent.Lflag &^= unix.ECHO

	if err := unix.IoctlSetTermios(fd, setTermiosRequest, &silent); err != nil {
		return nil, fmt.Errorf("disable terminal echo: %w", err)
	}
	return func() {
		_ = unix.IoctlSetTermios(fd, setTermiosRequest, &original)
	}, nil
}
