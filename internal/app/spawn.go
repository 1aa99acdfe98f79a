package app

import (
	"fmt"
	"os"

	"github.com/phroun/miniterm/internal/lifecycle"
	"github.com/phroun/miniterm/internal/options"
	"github.com/phroun/miniterm/internal/pty"
	"github.com/phroun/miniterm/internal/shell"
)

// childSpec resolves the command line and working directory into the
// child to spawn. Without -e the user's shell runs; an -e that holds no
// command is a parse failure. Failures are fatal.
func childSpec(opts options.Options) (pty.Spec, error) {
	resolve := shell.ResolveUserShell
	if opts.CommandSet {
		resolve = func() (string, []string, error) { return shell.Resolve(opts.Command) }
	}
	path, argv, err := resolve()
	if err != nil {
		return pty.Spec{}, lifecycle.Fatal(err)
	}

	if opts.Directory != "" {
		info, err := os.Stat(opts.Directory)
		if err != nil {
			return pty.Spec{}, lifecycle.Fatal(fmt.Errorf("failed to use directory: %w", err))
		}
		if !info.IsDir() {
			return pty.Spec{}, lifecycle.Fatal(fmt.Errorf("failed to use directory %q: not a directory", opts.Directory))
		}
	}

	return pty.Spec{
		Path: path,
		Argv: argv,
		Dir:  opts.Directory,
	}, nil
}

// exitNotice is fed into a kept terminal once its child is gone
func exitNotice(status int) string {
	return fmt.Sprintf("\r\n\x1b[7m[process exited with status %d]\x1b[0m\r\n", status)
}
