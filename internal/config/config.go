// Package config reads the terminal's key file: a font under [Font] and a
// full color set under [Colors].
//
// Missing or malformed settings never stop the terminal; the defaults
// stay in effect.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

const (
	appDir   = "miniterm"
	fileName = "miniterm.conf"

	sectionFont   = "Font"
	sectionColors = "Colors"
)

// PaletteSize is the number of colorNN keys in [Colors]
const PaletteSize = 16

// ErrMalformed is wrapped by Load when the file exists but cannot be parsed
var ErrMalformed = errors.New("malformed config file")

// Template is written when no config file exists
const Template = "[Font]\n#font=\n\n" +
	"[Colors]\n#foreground=\n#background=\n" +
	"#color00=\n#color01=\n#color02=\n#color03=\n" +
	"#color04=\n#color05=\n#color06=\n#color07=\n" +
	"#color08=\n#color09=\n#color0a=\n#color0b=\n" +
	"#color0c=\n#color0d=\n#color0e=\n#color0f=\n"

// Colors is a complete terminal color set
type Colors struct {
	Foreground RGB
	Background RGB
	Palette    [PaletteSize]RGB // ANSI order: black, red, green, yellow, blue, magenta, cyan, white, then bright
}

// Theme is what the config file contributes. Nil fields were absent or
// invalid and leave the terminal's defaults alone.
type Theme struct {
	Font   *Font
	Colors *Colors
}

// Dir returns the config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appDir)
}

// Path returns the default config file path
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fileName)
}

// Load reads the theme at path (default path when empty).
//
// A missing file is not an error: the template is written in its place
// and an empty theme returned. A malformed file yields an empty theme and
// an error wrapping ErrMalformed; the file is left untouched.
func Load(path string) (*Theme, error) {
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if werr := WriteTemplate(path); werr != nil {
				return &Theme{}, fmt.Errorf("failed to write config template: %w", werr)
			}
			return &Theme{}, nil
		}
		return &Theme{}, fmt.Errorf("failed to read config: %w", err)
	}

	theme, err := Parse(data)
	if err != nil {
		return &Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	return theme, nil
}

// WriteTemplate creates path's directory and writes Template to path. An
// existing file is never replaced.
func WriteTemplate(path string) error {
	if path == "" {
		return errors.New("no config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	if _, err := f.WriteString(Template); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Parse reads a key file. Invalid individual entries are dropped; only a
// syntactically broken file is an error.
func Parse(data []byte) (*Theme, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true, // '#' starts hex colors
	}, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	theme := &Theme{}
	if sec, err := file.GetSection(sectionFont); err == nil && sec.HasKey("font") {
		if f, err := ParseFont(sec.Key("font").String()); err == nil {
			theme.Font = &f
		}
	}
	if sec, err := file.GetSection(sectionColors); err == nil {
		theme.Colors = parseColors(sec)
	}
	return theme, nil
}

// parseColors returns nil unless foreground, background and every palette
// entry are present and valid
func parseColors(sec *ini.Section) *Colors {
	get := func(key string) (RGB, bool) {
		if !sec.HasKey(key) {
			return RGB{}, false
		}
		c, err := ParseColor(sec.Key(key).String())
		return c, err == nil
	}

	var c Colors
	var ok bool
	if c.Foreground, ok = get("foreground"); !ok {
		return nil
	}
	if c.Background, ok = get("background"); !ok {
		return nil
	}
	for i := 0; i < PaletteSize; i++ {
		if c.Palette[i], ok = get(PaletteKey(i)); !ok {
			return nil
		}
	}
	return &c
}

// PaletteKey returns the key name of palette entry i ("color00".."color0f")
func PaletteKey(i int) string {
	return fmt.Sprintf("color%02x", i)
}
