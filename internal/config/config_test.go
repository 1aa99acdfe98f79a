package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullColors = `
[Colors]
foreground=#ffffff
background=#000000
color00=#000000
color01=#db2d20
color02=#01a252
color03=#fded02
color04=#01a0e4
color05=#a16a94
color06=#b5e4f4
color07=#a5a2a2
color08=#5c5855
color09=#e8bbd0
color0a=#3a3432
color0b=#4a4543
color0c=#807d7c
color0d=#d6d5d4
color0e=#cdab53
color0f=#f7f7f7
`

func TestPath_UsesXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/miniterm", Dir())
	assert.Equal(t, "/tmp/xdg/miniterm/miniterm.conf", Path())
}

func TestPath_FallsBackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/.config/miniterm/miniterm.conf", Path())
}

func TestLoad_WritesTemplateWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "miniterm", "miniterm.conf")

	theme, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, theme.Font)
	assert.Nil(t, theme.Colors)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Template, string(data))

	// The template itself parses to an empty theme
	theme, err = Load(path)
	require.NoError(t, err)
	assert.Nil(t, theme.Font)
	assert.Nil(t, theme.Colors)
}

func TestLoad_DefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := Load("")
	require.NoError(t, err)
	assert.FileExists(t, Path())
}

func TestLoad_MalformedFileIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miniterm.conf")
	content := "[Font\nfont=Monospace 10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	theme, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	require.NotNil(t, theme)
	assert.Nil(t, theme.Font)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestWriteTemplate_DoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miniterm.conf")
	require.NoError(t, os.WriteFile(path, []byte("[Font]\nfont=Mono 9\n"), 0644))

	require.NoError(t, WriteTemplate(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[Font]\nfont=Mono 9\n", string(data))
}

func TestParse_Font(t *testing.T) {
	theme, err := Parse([]byte("[Font]\nfont=Anonymous Pro 9\n"))
	require.NoError(t, err)
	require.NotNil(t, theme.Font)
	assert.Equal(t, Font{Family: "Anonymous Pro", Size: 9}, *theme.Font)
	assert.Nil(t, theme.Colors)
}

func TestParse_InvalidFontIgnored(t *testing.T) {
	theme, err := Parse([]byte("[Font]\nfont=\n"))
	require.NoError(t, err)
	assert.Nil(t, theme.Font)
}

func TestParse_FullColors(t *testing.T) {
	theme, err := Parse([]byte(fullColors))
	require.NoError(t, err)
	require.NotNil(t, theme.Colors)

	assert.Equal(t, RGB{255, 255, 255}, theme.Colors.Foreground)
	assert.Equal(t, RGB{0, 0, 0}, theme.Colors.Background)
	assert.Equal(t, RGB{0xdb, 0x2d, 0x20}, theme.Colors.Palette[1])
	assert.Equal(t, RGB{0xf7, 0xf7, 0xf7}, theme.Colors.Palette[15])
}

func TestParse_X11PaletteNames(t *testing.T) {
	data := strings.Replace(fullColors, "color04=#01a0e4", "color04=navy blue", 1)
	data = strings.Replace(data, "color08=#5c5855", "color08=gray50", 1)

	theme, err := Parse([]byte(data))
	require.NoError(t, err)
	require.NotNil(t, theme.Colors)
	assert.Equal(t, RGB{0, 0, 128}, theme.Colors.Palette[4])
	assert.Equal(t, RGB{127, 127, 127}, theme.Colors.Palette[8])
}

func TestParse_ColorsAreAllOrNothing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(string) string
	}{
		{"missing foreground", func(s string) string { return strings.Replace(s, "foreground=#ffffff\n", "", 1) }},
		{"bad background", func(s string) string { return strings.Replace(s, "background=#000000", "background=#00000g", 1) }},
		{"missing palette entry", func(s string) string { return strings.Replace(s, "color0c=#807d7c\n", "", 1) }},
		{"bad palette entry", func(s string) string { return strings.Replace(s, "color05=#a16a94", "color05=purplish", 1) }},
		{"commented entry", func(s string) string { return strings.Replace(s, "color0f=", "#color0f=", 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, err := Parse([]byte("[Font]\nfont=Mono 11\n" + tt.mutate(fullColors)))
			require.NoError(t, err)
			assert.Nil(t, theme.Colors)
			// Font is independent of the colors
			require.NotNil(t, theme.Font)
			assert.Equal(t, 11, theme.Font.Size)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("[Colors]\nthis line has no delimiter\n"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParse_CommentsAndEmpty(t *testing.T) {
	theme, err := Parse([]byte("# comment\n; other comment\n\n"))
	require.NoError(t, err)
	assert.Nil(t, theme.Font)
	assert.Nil(t, theme.Colors)
}

func TestPaletteKey(t *testing.T) {
	assert.Equal(t, "color00", PaletteKey(0))
	assert.Equal(t, "color0a", PaletteKey(10))
	assert.Equal(t, "color0f", PaletteKey(15))
}
