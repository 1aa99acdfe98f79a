// Package pty runs the terminal's child process on a pseudo-terminal and
// reports how it exited.
package pty

import "os/exec"

// PTY is the interface for platform-specific pseudo-terminal implementations
type PTY interface {
	// Start starts cmd with the PTY as its controlling terminal
	Start(cmd *exec.Cmd) error

	// Read reads child output from the PTY
	Read(p []byte) (n int, err error)

	// Write writes input to the PTY
	Write(p []byte) (n int, err error)

	// Resize sets the PTY window size
	Resize(cols, rows int) error

	// Close closes the PTY
	Close() error
}
