//go:build !windows

package pty

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Environment entries every child gets on top of the inherited environment
var childEnv = []string{
	"TERM=xterm-256color",
	"COLORTERM=truecolor",
}

const (
	// hangupGrace is how long Close waits after SIGHUP before killing
	hangupGrace = 2 * time.Second

	// drainTimeout bounds how long Done waits for buffered output after
	// the child exits; background jobs may keep the slave open forever
	drainTimeout = 250 * time.Millisecond
)

// newPTY is swapped in tests
var newPTY = New

// Error reports which stage of starting the child failed
type Error struct {
	Op  string // "create pty" or "spawn"
	Err error
}

func (e *Error) Error() string {
	return "failed to " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Spec describes the child to run
type Spec struct {
	Path string   // Resolved executable
	Argv []string // Full argv including argv[0]
	Dir  string   // Working directory (default: inherit)
	Env  []string // Base environment (default: os.Environ())
	Cols int      // Initial PTY width (ignored when <= 0)
	Rows int      // Initial PTY height (ignored when <= 0)
}

// Child is a running process attached to a PTY
type Child struct {
	mu     sync.Mutex
	logger *slog.Logger

	pty PTY
	cmd *exec.Cmd

	done     chan struct{}
	readDone chan struct{}
	status   int

	closeOnce sync.Once
}

// Spawn starts spec on a fresh PTY. Everything the child writes is copied
// to out until the PTY reports EOF.
func Spawn(spec Spec, out io.Writer, logger *slog.Logger) (*Child, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(spec.Argv) == 0 {
		return nil, &Error{Op: "spawn", Err: errors.New("no command")}
	}
	path := spec.Path
	if path == "" {
		path = spec.Argv[0]
	}

	p, err := newPTY()
	if err != nil {
		return nil, &Error{Op: "create pty", Err: err}
	}

	env := spec.Env
	if env == nil {
		env = os.Environ()
	}
	env = append(append([]string(nil), env...), childEnv...)

	cmd := &exec.Cmd{
		Path: path,
		Args: spec.Argv,
		Dir:  spec.Dir,
		Env:  env,
	}

	if spec.Cols > 0 && spec.Rows > 0 {
		if err := p.Resize(spec.Cols, spec.Rows); err != nil {
			logger.Debug("initial pty resize failed", "error", err)
		}
	}

	if err := p.Start(cmd); err != nil {
		p.Close()
		return nil, &Error{Op: "spawn", Err: err}
	}

	c := &Child{
		logger:   logger,
		pty:      p,
		cmd:      cmd,
		done:     make(chan struct{}),
		readDone: make(chan struct{}),
	}
	logger.Debug("child started", "pid", cmd.Process.Pid, "argv", spec.Argv, "dir", spec.Dir)

	go c.readLoop(out)
	go c.waitLoop()

	return c, nil
}

func (c *Child) readLoop(out io.Writer) {
	defer close(c.readDone)

	buf := make([]byte, 4096)
	for {
		n, err := c.pty.Read(buf)
		if n > 0 && out != nil {
			out.Write(buf[:n])
		}
		if err != nil {
			// EIO once the last slave descriptor is gone
			return
		}
	}
}

func (c *Child) waitLoop() {
	err := c.cmd.Wait()
	status := exitStatus(c.cmd.ProcessState, err)

	select {
	case <-c.readDone:
	case <-time.After(drainTimeout):
	}

	c.mu.Lock()
	c.status = status
	c.mu.Unlock()

	c.logger.Debug("child exited", "pid", c.cmd.Process.Pid, "status", status)
	close(c.done)
}

// exitStatus maps a finished process to a shell-style status: the exit
// code, or 128+N when killed by signal N
func exitStatus(state *os.ProcessState, waitErr error) int {
	if state == nil {
		if waitErr != nil {
			return 1
		}
		return 0
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}

// Pid returns the child's process id
func (c *Child) Pid() int {
	return c.cmd.Process.Pid
}

// Done is closed once the child has exited and its output is drained
func (c *Child) Done() <-chan struct{} {
	return c.done
}

// ExitStatus returns the child's exit status; valid after Done is closed
func (c *Child) ExitStatus() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Exited reports whether the child has exited
func (c *Child) Exited() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Write sends input to the child
func (c *Child) Write(data []byte) (int, error) {
	if c.Exited() {
		return 0, io.ErrClosedPipe
	}
	return c.pty.Write(data)
}

// Resize changes the PTY window size
func (c *Child) Resize(cols, rows int) error {
	if c.Exited() {
		return nil
	}
	return c.pty.Resize(cols, rows)
}

// Close hangs up the child's session, kills it if it lingers, and
// releases the PTY. Safe to call more than once.
func (c *Child) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if !c.Exited() {
			c.signal(unix.SIGHUP)
			select {
			case <-c.done:
			case <-time.After(hangupGrace):
				c.logger.Debug("child ignored hangup, killing", "pid", c.Pid())
				c.signal(unix.SIGKILL)
			}
		}
		err = c.pty.Close()
		if err != nil {
			err = fmt.Errorf("close pty: %w", err)
		}
	})
	return err
}

// signal delivers sig to the child's process group
func (c *Child) signal(sig unix.Signal) {
	pid := c.cmd.Process.Pid
	if err := unix.Kill(-pid, sig); err != nil {
		c.cmd.Process.Signal(sig)
	}
}
