// Package term embeds the terminal widget in miniterm: it owns the widget,
// the child process behind it, and the settings the front end controls
// (font, colors, cursor, scrollback).
package term

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/phroun/purfecterm"
	ptgtk "github.com/phroun/purfecterm/gtk"

	"github.com/phroun/miniterm/internal/config"
	"github.com/phroun/miniterm/internal/keys"
	"github.com/phroun/miniterm/internal/osc"
	"github.com/phroun/miniterm/internal/pty"
)

// Fixed terminal behavior
const (
	DefaultCols      = 80
	DefaultRows      = 24
	ScrollbackLines  = 10000
	cursorShapeBlock = 0
	cursorBlinkOff   = 0
)

// Options configures terminal creation
type Options struct {
	Cols           int           // Initial width in columns (default: 80)
	Rows           int           // Initial height in rows (default: 24)
	ScrollbackSize int           // Scrollback lines (default: 10000)
	Theme          *config.Theme // Font and colors from the config file (may be nil)
}

// Terminal is the terminal widget plus the child process it displays
type Terminal struct {
	mu     sync.Mutex
	logger *slog.Logger

	widget  *ptgtk.Widget
	child   *pty.Child
	scanner *osc.Scanner

	font     config.Font // Current font
	baseFont config.Font // Font from config; target of FontReset

	onBell  func()
	onTitle func(string)
	onExit  func(status int)
}

// New creates the widget and applies opts; no child is started yet
func New(opts Options, logger *slog.Logger) (*Terminal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Cols <= 0 {
		opts.Cols = DefaultCols
	}
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	if opts.ScrollbackSize <= 0 {
		opts.ScrollbackSize = ScrollbackLines
	}

	widget, err := ptgtk.NewWidget(opts.Cols, opts.Rows, opts.ScrollbackSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal widget: %w", err)
	}
	widget.Buffer().SetCursorStyle(cursorShapeBlock, cursorBlinkOff)

	t := &Terminal{
		logger: logger,
		widget: widget,
	}
	t.scanner = osc.NewScanner(osc.HandlerFuncs{
		OnBell:  t.bell,
		OnTitle: t.title,
	})
	t.ApplyTheme(opts.Theme)

	widget.SetInputCallback(func(data []byte) {
		if child := t.currentChild(); child != nil {
			child.Write(data)
		}
	})
	widget.SetResizeCallback(func(cols, rows int) {
		if child := t.currentChild(); child != nil {
			if err := child.Resize(cols, rows); err != nil {
				t.logger.Debug("pty resize failed", "cols", cols, "rows", rows, "error", err)
			}
		}
	})

	return t, nil
}

// Widget returns the GTK box containing the terminal
func (t *Terminal) Widget() *gtk.Box {
	return t.widget.Box()
}

// GrabFocus moves keyboard focus to the terminal
func (t *Terminal) GrabFocus() {
	t.widget.DrawingArea().GrabFocus()
}

// SetBellHandler sets the callback for BEL; it runs on the GTK main loop
func (t *Terminal) SetBellHandler(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onBell = fn
}

// SetTitleHandler sets the callback for title changes requested by the
// child; it runs on the GTK main loop
func (t *Terminal) SetTitleHandler(fn func(string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onTitle = fn
}

// SetExitHandler sets the callback for child exit; it runs on the GTK main
// loop with the child's exit status
func (t *Terminal) SetExitHandler(fn func(status int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onExit = fn
}

// Spawn starts the child described by spec at the widget's current size
func (t *Terminal) Spawn(spec pty.Spec) error {
	t.mu.Lock()
	if t.child != nil {
		t.mu.Unlock()
		return fmt.Errorf("child already running")
	}
	t.mu.Unlock()

	spec.Cols, spec.Rows = t.widget.GetSize()
	out := io.MultiWriter(feeder{t.widget}, t.scanner)

	child, err := pty.Spawn(spec, out, t.logger)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.child = child
	t.mu.Unlock()

	go func() {
		<-child.Done()
		status := child.ExitStatus()
		glib.IdleAdd(func() {
			t.mu.Lock()
			fn := t.onExit
			t.mu.Unlock()
			if fn != nil {
				fn(status)
			}
		})
	}()
	return nil
}

func (t *Terminal) currentChild() *pty.Child {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.child
}

// Feed writes text straight to the display, bypassing the child
func (t *Terminal) Feed(s string) {
	t.widget.FeedString(s)
}

// HandleAction performs a shortcut action. It returns false for keys.None
// so the key reaches the child.
func (t *Terminal) HandleAction(a keys.Action) bool {
	switch a {
	case keys.Copy:
		t.widget.CopySelection()
	case keys.Paste:
		t.widget.PasteClipboard()
	case keys.FontBigger, keys.FontSmaller, keys.FontReset:
		t.zoom(a)
	default:
		return false
	}
	t.logger.Debug("shortcut", "action", a)
	return true
}

func (t *Terminal) zoom(a keys.Action) {
	t.mu.Lock()
	font := t.font
	size := keys.ApplyFontSize(a, font.Size, t.baseFont.Size)
	changed := size != font.Size
	t.font.Size = size
	t.mu.Unlock()

	if changed {
		t.widget.SetFont(font.Family, size)
	}
}

// ApplyTheme sets font and colors from theme. Settings theme leaves unset
// fall back to the built-in defaults, so removing a setting from the
// config file and reloading restores the default. A zoom in effect is
// kept relative to the new configured size.
func (t *Terminal) ApplyTheme(theme *config.Theme) {
	font := theme.FontOr(config.DefaultFont)

	t.mu.Lock()
	size := font.Size
	if t.baseFont.Size > 0 {
		size = keys.RebaseFontSize(t.font.Size, t.baseFont.Size, font.Size)
	}
	t.baseFont = font
	t.font = font
	t.font.Size = size
	t.mu.Unlock()

	t.widget.SetFont(font.Family, size)
	t.widget.SetColorScheme(theme.Scheme(purfecterm.DefaultColorScheme()))

	attrs := []any{"font", font.String(), "size", size}
	if theme != nil && theme.Colors != nil {
		attrs = append(attrs, "foreground", theme.Colors.Foreground.Hex(), "background", theme.Colors.Background.Hex())
	}
	t.logger.Debug("theme applied", attrs...)
}

// Close hangs up the child and releases the PTY
func (t *Terminal) Close() error {
	child := t.currentChild()
	if child == nil {
		return nil
	}
	return child.Close()
}

// bell and title run on the PTY reader goroutine
func (t *Terminal) bell() {
	glib.IdleAdd(func() {
		t.mu.Lock()
		fn := t.onBell
		t.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

func (t *Terminal) title(s string) {
	glib.IdleAdd(func() {
		t.mu.Lock()
		fn := t.onTitle
		t.mu.Unlock()
		if fn != nil {
			fn(s)
		}
	})
}

// feeder adapts the widget to io.Writer for the PTY output pump
type feeder struct {
	w *ptgtk.Widget
}

func (f feeder) Write(p []byte) (int, error) {
	f.w.Feed(p)
	return len(p), nil
}
