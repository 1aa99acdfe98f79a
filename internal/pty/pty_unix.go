//go:build !windows

package pty

import (
	"errors"
	"os"
	"os/exec"
	"sync"
	"syscall"

	cpty "github.com/creack/pty"
)

// UnixPTY implements PTY on top of the system's /dev/ptmx
type UnixPTY struct {
	mu     sync.Mutex
	master *os.File
	slave  *os.File
}

// New opens a new master/slave pair
func New() (PTY, error) {
	master, slave, err := cpty.Open()
	if err != nil {
		return nil, err
	}
	return &UnixPTY{master: master, slave: slave}, nil
}

// Start starts cmd on the slave side as a session leader whose
// controlling terminal is the PTY
func (p *UnixPTY) Start(cmd *exec.Cmd) error {
	p.mu.Lock()
	slave := p.slave
	p.mu.Unlock()
	if slave == nil {
		return errors.New("pty already started")
	}

	cmd.Stdin = slave
	cmd.Stdout = slave
	cmd.Stderr = slave
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true
	cmd.SysProcAttr.Setctty = true
	cmd.SysProcAttr.Ctty = 0 // stdin in the child

	if err := cmd.Start(); err != nil {
		return err
	}

	// The child has its own copy
	p.mu.Lock()
	p.slave.Close()
	p.slave = nil
	p.mu.Unlock()
	return nil
}

// Read reads from the master side
func (p *UnixPTY) Read(b []byte) (int, error) {
	return p.master.Read(b)
}

// Write writes to the master side
func (p *UnixPTY) Write(b []byte) (int, error) {
	return p.master.Write(b)
}

// Resize sets the window size seen by the child
func (p *UnixPTY) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return errors.New("invalid pty size")
	}
	return cpty.Setsize(p.master, &cpty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}

// Close closes both sides
func (p *UnixPTY) Close() error {
	p.mu.Lock()
	if p.slave != nil {
		p.slave.Close()
		p.slave = nil
	}
	p.mu.Unlock()
	return p.master.Close()
}
