// Package main is the entry point for the miniterm terminal emulator.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/phroun/miniterm/internal/app"
	"github.com/phroun/miniterm/internal/lifecycle"
	"github.com/phroun/miniterm/internal/options"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	// GTK must stay on the main thread
	runtime.LockOSThread()

	exitCode := 0
	cmd := options.NewCommand(version, func(opts options.Options) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: opts.LogLevel,
		}))
		slog.SetDefault(logger)

		code, err := app.Run(opts, logger)
		if err != nil {
			return err
		}
		exitCode = code
		return nil
	})

	if err := cmd.Execute(); err != nil {
		if lifecycle.IsFatal(err) {
			fmt.Fprintf(os.Stderr, "miniterm: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "option parsing failed: %v\n", err)
		}
		os.Exit(1)
	}
	os.Exit(exitCode)
}
