package config

import "github.com/phroun/purfecterm"

// Scheme applies the theme's colors to base. The configured colors become
// the dark (normal) mode; light mode, entered by DECSCNM reverse video,
// swaps foreground and background over the same palette.
func (t *Theme) Scheme(base purfecterm.ColorScheme) purfecterm.ColorScheme {
	if t == nil || t.Colors == nil {
		return base
	}
	c := t.Colors

	palette := make([]purfecterm.Color, PaletteSize)
	for i, rgb := range c.Palette {
		palette[i] = trueColor(rgb)
	}

	scheme := base
	scheme.DarkForeground = trueColor(c.Foreground)
	scheme.DarkBackground = trueColor(c.Background)
	scheme.DarkPalette = palette
	scheme.LightForeground = trueColor(c.Background)
	scheme.LightBackground = trueColor(c.Foreground)
	scheme.LightPalette = palette
	scheme.Cursor = trueColor(c.Foreground)
	return scheme
}

// FontOr returns the configured font with unset fields taken from base
func (t *Theme) FontOr(base Font) Font {
	if t == nil || t.Font == nil {
		return base
	}
	return t.Font.Merge(base)
}

func trueColor(c RGB) purfecterm.Color {
	return purfecterm.TrueColor(c.R, c.G, c.B)
}
