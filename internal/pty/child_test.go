//go:build !windows

package pty

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer collects child output from the read goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func shSpec(t *testing.T, script string) Spec {
	t.Helper()
	path, err := exec.LookPath("sh")
	require.NoError(t, err)
	return Spec{Path: path, Argv: []string{"sh", "-c", script}}
}

func waitDone(t *testing.T, c *Child) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("child did not exit")
	}
}

func TestSpawn_OutputAndExitStatus(t *testing.T) {
	out := &syncBuffer{}
	c, err := Spawn(shSpec(t, "printf hello; exit 3"), out, nil)
	require.NoError(t, err)
	defer c.Close()

	waitDone(t, c)
	assert.True(t, c.Exited())
	assert.Equal(t, 3, c.ExitStatus())
	assert.Contains(t, out.String(), "hello")
}

func TestSpawn_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	out := &syncBuffer{}
	spec := shSpec(t, "pwd")
	spec.Dir = dir

	c, err := Spawn(spec, out, nil)
	require.NoError(t, err)
	defer c.Close()

	waitDone(t, c)
	assert.Equal(t, 0, c.ExitStatus())
	// macOS reports /private/var for /var
	assert.True(t, strings.Contains(out.String(), dir) ||
		strings.Contains(out.String(), strings.TrimPrefix(dir, "/private")))
}

func TestSpawn_Environment(t *testing.T) {
	out := &syncBuffer{}
	spec := shSpec(t, `printf "%s|%s|%s" "$TERM" "$COLORTERM" "$MINITERM_TEST"`)
	spec.Env = []string{"MINITERM_TEST=yes", "TERM=dumb", "PATH=/usr/bin:/bin"}

	c, err := Spawn(spec, out, nil)
	require.NoError(t, err)
	defer c.Close()

	waitDone(t, c)
	assert.Contains(t, out.String(), "xterm-256color|truecolor|yes")
}

func TestSpawn_ControllingTerminal(t *testing.T) {
	out := &syncBuffer{}
	c, err := Spawn(shSpec(t, "test -t 0 && test -t 1 && printf tty"), out, nil)
	require.NoError(t, err)
	defer c.Close()

	waitDone(t, c)
	assert.Equal(t, 0, c.ExitStatus())
	assert.Contains(t, out.String(), "tty")
}

func TestSpawn_InitialSize(t *testing.T) {
	out := &syncBuffer{}
	spec := shSpec(t, "stty size")
	spec.Cols, spec.Rows = 100, 30

	c, err := Spawn(spec, out, nil)
	require.NoError(t, err)
	defer c.Close()

	waitDone(t, c)
	assert.Contains(t, out.String(), "30 100")
}

func TestChild_Write(t *testing.T) {
	out := &syncBuffer{}
	c, err := Spawn(shSpec(t, "read line; printf 'got:%s' \"$line\""), out, nil)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Write([]byte("ping\n"))
	require.NoError(t, err)

	waitDone(t, c)
	assert.Contains(t, out.String(), "got:ping")

	_, err = c.Write([]byte("late"))
	assert.Error(t, err)
}

func TestChild_CloseHangsUp(t *testing.T) {
	c, err := Spawn(shSpec(t, "sleep 30"), &syncBuffer{}, nil)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	waitDone(t, c)
	assert.Equal(t, 128+1, c.ExitStatus()) // SIGHUP

	// Second close is a no-op
	assert.NoError(t, c.Close())
}

func TestSpawn_BadDirectory(t *testing.T) {
	spec := shSpec(t, "true")
	spec.Dir = "/nonexistent/miniterm/dir"

	_, err := Spawn(spec, nil, nil)
	require.Error(t, err)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "spawn", perr.Op)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to spawn: "))
}

func TestSpawn_PTYFailure(t *testing.T) {
	old := newPTY
	newPTY = func() (PTY, error) { return nil, errors.New("no ptys left") }
	t.Cleanup(func() { newPTY = old })

	_, err := Spawn(shSpec(t, "true"), nil, nil)
	require.Error(t, err)
	assert.Equal(t, "failed to create pty: no ptys left", err.Error())
}

func TestSpawn_NoCommand(t *testing.T) {
	_, err := Spawn(Spec{}, nil, nil)
	assert.Error(t, err)
}

func TestUnixPTY_Resize(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	defer p.Close()

	assert.NoError(t, p.Resize(120, 40))
	assert.Error(t, p.Resize(0, 40))
}
