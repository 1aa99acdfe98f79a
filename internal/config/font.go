package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Font is a font family list and a point size. Zero values mean "keep
// whatever the terminal already uses".
type Font struct {
	Family string // Comma-separated family list, first available wins
	Size   int    // Points
}

// DefaultFont is used until the config file names another
var DefaultFont = Font{Family: "Monospace", Size: 12}

func (f Font) String() string {
	switch {
	case f.Family == "":
		return strconv.Itoa(f.Size)
	case f.Size <= 0:
		return f.Family
	default:
		return f.Family + " " + strconv.Itoa(f.Size)
	}
}

// Merge fills the unset fields of f from base
func (f Font) Merge(base Font) Font {
	if f.Family == "" {
		f.Family = base.Family
	}
	if f.Size <= 0 {
		f.Size = base.Size
	}
	return f
}

// styleWords are Pango style/weight/stretch tokens; the terminal widget
// takes a bare family so they are dropped
var styleWords = map[string]bool{
	"normal": true, "roman": true, "regular": true, "book": true,
	"italic": true, "oblique": true,
	"thin": true, "ultra-light": true, "extra-light": true, "light": true,
	"semi-light": true, "demi-light": true, "medium": true,
	"semi-bold": true, "demi-bold": true, "bold": true,
	"ultra-bold": true, "extra-bold": true, "heavy": true, "black": true,
	"ultra-heavy": true, "extra-heavy": true,
	"small-caps": true, "condensed": true, "semi-condensed": true,
	"expanded": true, "semi-expanded": true,
}

// ParseFont reads a Pango-style font string: "[FAMILY-LIST] [STYLE...]
// [SIZE]". The size may carry a "px" suffix and a fraction; it is rounded
// to whole points.
func ParseFont(s string) (Font, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Font{}, fmt.Errorf("empty font")
	}

	var f Font
	last := fields[len(fields)-1]
	if size, ok := parseSize(last); ok {
		if size <= 0 {
			return Font{}, fmt.Errorf("bad font size %q", last)
		}
		f.Size = size
		fields = fields[:len(fields)-1]
	}

	for len(fields) > 0 && styleWords[strings.ToLower(fields[len(fields)-1])] {
		fields = fields[:len(fields)-1]
	}

	f.Family = strings.TrimSuffix(strings.Join(fields, " "), ",")
	f.Family = strings.TrimSpace(f.Family)

	if f.Family == "" && f.Size == 0 {
		return Font{}, fmt.Errorf("no family or size in %q", s)
	}
	return f, nil
}

func parseSize(tok string) (int, bool) {
	tok = strings.TrimSuffix(tok, "px")
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return int(math.Round(v)), true
}
