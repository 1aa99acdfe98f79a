// Package shell turns the user's command line into the argv of the child
// process the terminal runs.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// FallbackShell is used when no login shell can be determined
const FallbackShell = "/bin/sh"

// ErrEmptyCommand is returned when a command line holds no words
var ErrEmptyCommand = errors.New("empty command")

// passwdPath is read to find the login shell when $SHELL is unset
var passwdPath = "/etc/passwd"

// UserShell returns the user's login shell: $SHELL, then the passwd entry
// for the current uid, then FallbackShell.
func UserShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	if sh := passwdShell(passwdPath, os.Getuid()); sh != "" {
		return sh
	}
	return FallbackShell
}

// passwdShell scans a passwd(5) file for uid and returns its shell field
func passwdShell(path string, uid int) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	want := strconv.Itoa(uid)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) != 7 || fields[2] != want {
			continue
		}
		return fields[6]
	}
	return ""
}

// ParseCommand splits a command line into words using POSIX shell quoting
// rules. Unterminated quotes and empty command lines are errors.
func ParseCommand(cmdline string) ([]string, error) {
	argv, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command %q: %w", cmdline, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("failed to parse command %q: %w", cmdline, ErrEmptyCommand)
	}
	return argv, nil
}

// Resolve returns the argv to spawn for cmdline. argv[0] is resolved
// against $PATH; the returned argv keeps the name as typed so the child
// sees its usual argv[0]. A blank cmdline fails with ErrEmptyCommand.
func Resolve(cmdline string) (path string, argv []string, err error) {
	argv, err = ParseCommand(cmdline)
	if err != nil {
		return "", nil, err
	}
	path, err = exec.LookPath(argv[0])
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve %q: %w", argv[0], err)
	}
	return path, argv, nil
}

// ResolveUserShell resolves the user's login shell
func ResolveUserShell() (path string, argv []string, err error) {
	return Resolve(UserShell())
}

// Name returns the base name of the program argv runs, for logging
func Name(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	return filepath.Base(argv[0])
}
