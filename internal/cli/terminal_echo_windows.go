//go:build windows

package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

func disableEcho(file *os.File) (func(), error) {
	if file == nil {
		return nil, errors.New("stdin unavailable")
	}

	handle := windows.Handle(file.Fd())
	var original uint32
	if err := windows.GetConsoleMode(handle, &original); err != nil {
		return nil, fmt.Errorf("stdin is not a console: %w", err)
	}
	if err := windows.SetConsoleMode(handle, original&^windows.ENABLE_ECHO_INPUT); err != nil {
		return nil, fmt.Errorf("disable console echo: %w", err)
	}
	return func() {
		_ = windows.SetConsoleMode(handle, original)
	}, nil
}
