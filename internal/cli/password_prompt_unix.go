//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// readPasswordNoEcho reads one line from the terminal with echo turned off,
// restoring the original terminal state before returning.
func readPasswordNoEcho(stdin *os.File) (string, error) {
	if stdin == nil {
		return "", errors.New("stdin unavailable")
	}

	fd := int(stdin.Fd())
	termios, err := unix.IoctlGetTermios(fd, termiosReadRequest)
	if err != nil {
		return "", err
	}
	originalTermios := *termios
	updatedTermios := originalTermios
	updatedTermios.Lflag &^= unix.ECHO

	if err := unix.IoctlSetTermios(fd, termiosWriteRequest, &updatedTermios); err != nil {
		return "", err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, termiosWriteRequest, &originalTermios)
	}()

	return readTrimmedLine(stdin)
}
