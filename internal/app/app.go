// Package app runs the miniterm window: one GtkApplication, one window,
// one terminal, and the shutdown rules that tie them to the child process.
package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/phroun/miniterm/internal/config"
	"github.com/phroun/miniterm/internal/keys"
	"github.com/phroun/miniterm/internal/lifecycle"
	"github.com/phroun/miniterm/internal/options"
	"github.com/phroun/miniterm/internal/pty"
	"github.com/phroun/miniterm/internal/shell"
	"github.com/phroun/miniterm/internal/term"
)

const (
	appID    = "com.github.phroun.miniterm"
	iconName = "terminal"
	iconSize = 48

	defaultWidth  = 800
	defaultHeight = 600
)

// App is a running miniterm instance
type App struct {
	opts   options.Options
	logger *slog.Logger

	gtkApp  *gtk.Application
	win     *gtk.ApplicationWindow
	term    *term.Terminal
	watcher *config.Watcher

	spec  pty.Spec
	theme *config.Theme

	exit  lifecycle.ExitStatus
	fatal error
}

// Run shows the window and blocks until the application quits. It returns
// the status the process should exit with; a non-nil error is fatal.
// Must be called from the main goroutine with the OS thread locked.
func Run(opts options.Options, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	spec, err := childSpec(opts)
	if err != nil {
		return 1, err
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.Path()
	}
	theme, err := config.Load(configPath)
	if err != nil {
		// Defaults apply; the file is left for the user to fix
		logger.Info("config not applied", "path", configPath, "error", err)
	}

	setWMClass(opts.Name, options.ClassName)

	gtkApp, err := gtk.ApplicationNew(appID, glib.APPLICATION_NON_UNIQUE)
	if err != nil {
		return 1, lifecycle.Fatal(err)
	}

	a := &App{
		opts:   opts,
		logger: logger,
		gtkApp: gtkApp,
		spec:   spec,
		theme:  theme,
	}
	gtkApp.Connect("activate", a.activate)

	stopSignals := lifecycle.WatchSignals(context.Background(), func(os.Signal) {
		glib.IdleAdd(a.quit)
	}, logger)
	defer stopSignals()

	a.startWatcher(configPath)
	defer a.stopWatcher()

	// GApplication parses its own options; ours were consumed by cobra
	status := gtkApp.Run([]string{os.Args[0]})

	if a.term != nil {
		if err := a.term.Close(); err != nil {
			logger.Debug("terminal close", "error", err)
		}
	}

	if a.fatal != nil {
		return 1, a.fatal
	}
	if status != 0 {
		a.exit.Set(status)
	}
	return a.exit.Code(), nil
}

func (a *App) activate() {
	if a.win != nil {
		a.win.Present()
		return
	}

	win, err := gtk.ApplicationWindowNew(a.gtkApp)
	if err != nil {
		a.fail(err)
		return
	}
	a.win = win
	win.SetTitle(a.opts.WindowTitle())
	win.SetDefaultSize(defaultWidth, defaultHeight)
	a.setIcon()

	t, err := term.New(term.Options{Theme: a.theme}, a.logger)
	if err != nil {
		a.fail(err)
		return
	}
	a.term = t
	win.Add(t.Widget())

	win.Connect("key-press-event", func(_ *gtk.ApplicationWindow, ev *gdk.Event) bool {
		key := gdk.EventKeyNewFromEvent(ev)
		return t.HandleAction(keys.Lookup(key.State(), key.KeyVal()))
	})
	win.Connect("focus-in-event", func() bool {
		win.SetUrgencyHint(false)
		return false
	})
	win.Connect("focus-out-event", func() bool {
		win.SetUrgencyHint(false)
		return false
	})
	win.Connect("destroy", func() {
		a.win = nil
		if err := t.Close(); err != nil {
			a.logger.Debug("terminal close", "error", err)
		}
	})

	t.SetBellHandler(func() {
		if !win.IsActive() {
			win.SetUrgencyHint(true)
		}
	})
	if a.opts.DynamicTitle() {
		t.SetTitleHandler(func(title string) {
			if title == "" {
				title = a.opts.WindowTitle()
			}
			win.SetTitle(title)
		})
	}
	t.SetExitHandler(a.childExited)

	win.ShowAll()
	t.GrabFocus()

	// Spawn once the widget is realized so the PTY starts at its real size
	glib.IdleAdd(func() bool {
		if err := t.Spawn(a.spec); err != nil {
			a.fail(err)
			return false
		}
		a.logger.Info("child started", "program", shell.Name(a.spec.Argv), "argv", a.spec.Argv, "dir", a.spec.Dir)
		return false
	})
}

func (a *App) setIcon() {
	theme, err := gtk.IconThemeGetDefault()
	if err != nil {
		return
	}
	icon, err := theme.LoadIcon(iconName, iconSize, 0)
	if err != nil {
		a.logger.Debug("window icon not found", "icon", iconName, "error", err)
		return
	}
	a.win.SetIcon(icon)
}

func (a *App) childExited(status int) {
	a.logger.Info("child exited", "status", status, "keep", a.opts.Keep)
	if a.opts.Keep {
		if a.term != nil && a.win != nil {
			a.term.Feed(exitNotice(status))
		}
		return
	}
	a.exit.Set(status)
	if a.win != nil {
		a.win.Close()
	}
}

func (a *App) startWatcher(path string) {
	if path == "" {
		return
	}
	w, err := config.NewWatcher(path, func(theme *config.Theme) {
		glib.IdleAdd(func() {
			a.theme = theme
			if a.term != nil {
				a.term.ApplyTheme(theme)
			}
		})
	}, a.logger)
	if err != nil {
		a.logger.Warn("config reload disabled", "error", err)
		return
	}
	if err := w.Start(); err != nil {
		a.logger.Warn("config reload disabled", "path", path, "error", err)
		w.Stop()
		return
	}
	a.watcher = w
}

func (a *App) stopWatcher() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
}

// quit ends the main loop; runs on the GTK main loop
func (a *App) quit() {
	a.exit.Set(0)
	a.gtkApp.Quit()
}

// fail records a fatal error and quits; runs on the GTK main loop
func (a *App) fail(err error) {
	if !lifecycle.IsFatal(err) {
		err = lifecycle.Fatal(err)
	}
	if a.fatal == nil {
		a.fatal = err
	}
	a.logger.Error("fatal", "error", err)
	a.gtkApp.Quit()
}
