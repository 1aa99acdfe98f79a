// Package options defines miniterm's command line.
package options

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

// Defaults for the window identity
const (
	DefaultName  = "miniterm"
	DefaultTitle = "MiniTerm"
	ClassName    = "MiniTerm" // Second WM_CLASS value, not configurable
)

// Options is the parsed command line
type Options struct {
	Command    string // -e: command line to run instead of the user's shell
	CommandSet bool   // -e was given, even if empty
	Directory  string // -d: working directory of the child
	Keep       bool   // -k: keep the window after the child exits
	Name       string // -n: first WM_CLASS value
	Title      string // -t: fixed window title (empty: dynamic title)
	ConfigPath string // --config: alternate config file
	LogLevel   slog.Level
}

// WindowTitle returns the initial window title
func (o Options) WindowTitle() string {
	if o.Title != "" {
		return o.Title
	}
	return DefaultTitle
}

// DynamicTitle reports whether the child may retitle the window
func (o Options) DynamicTitle() bool {
	return o.Title == ""
}

// NewCommand builds the root command. run is invoked with the parsed
// options; version is printed for -v/--version.
func NewCommand(version string, run func(Options) error) *cobra.Command {
	var (
		opts        Options
		showVersion bool
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "miniterm",
		Short: "A minimal terminal emulator",
		Long: `miniterm is a minimal GTK terminal emulator.

It runs your login shell, or the command given with -e, in a single
window. Fonts and colors are read from miniterm.conf in your config
directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion(cmd.OutOrStdout(), version)
				return nil
			}
			level, err := ParseLogLevel(logLevel)
			if err != nil {
				return err
			}
			opts.LogLevel = level
			opts.CommandSet = cmd.Flags().Changed("execute")
			if opts.Name == "" {
				opts.Name = DefaultName
			}
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&showVersion, "version", "v", false, "Display program version and exit.")
	flags.StringVarP(&opts.Command, "execute", "e", "", "Execute `COMMAND` instead of default shell.")
	flags.StringVarP(&opts.Directory, "directory", "d", "", "Sets the working directory for the shell (or the command specified via -e) to `PATH`.")
	flags.BoolVarP(&opts.Keep, "keep", "k", false, "Don't exit the terminal after child process exits.")
	flags.StringVarP(&opts.Name, "name", "n", DefaultName, "Set first value of WM_CLASS property to `NAME`; second value is always '"+ClassName+"'.")
	flags.StringVarP(&opts.Title, "title", "t", "", "Set window title to `TITLE`; disables dynamic title (default: '"+DefaultTitle+"').")
	flags.StringVar(&opts.ConfigPath, "config", "", "Read fonts and colors from `FILE` instead of the default config file.")
	flags.StringVar(&logLevel, "log-level", "warn", "Log `LEVEL`: debug, info, warn or error.")

	return cmd
}

func printVersion(w io.Writer, version string) {
	fmt.Fprintf(w, "miniterm %s\n", version)
}

// ParseLogLevel maps a level name to a slog.Level
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
