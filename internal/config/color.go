package config

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// RGB is an opaque 24-bit color
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb"
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// x11Names holds the X11 rgb.txt names that are not CSS color names.
// Numbered variants such as "red3" are not supported, except grayN.
var x11Names = map[string]RGB{
	"lightgoldenrod": {238, 221, 130},
	"lightslateblue": {132, 112, 255},
	"navyblue":       {0, 0, 128},
	"violetred":      {208, 32, 144},
}

// ParseColor parses the color syntaxes GTK accepts in key files:
// "#rgb", "#rrggbb", "#rrrgggbbb", "#rrrrggggbbbb", "rgb(r,g,b)",
// "rgba(r,g,b,a)", CSS color names, and the X11 names in x11Names and
// gray0..gray100. Alpha is accepted and dropped.
func ParseColor(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGB{}, fmt.Errorf("empty color")
	}

	switch {
	case s[0] == '#':
		return parseHex(s[1:])
	case hasPrefixFold(s, "rgba("):
		return parseFunc(s[len("rgba("):], 4)
	case hasPrefixFold(s, "rgb("):
		return parseFunc(s[len("rgb("):], 3)
	}

	name := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if c, ok := colornames.Map[name]; ok {
		return RGB{R: c.R, G: c.G, B: c.B}, nil
	}
	if c, ok := x11Names[name]; ok {
		return c, nil
	}
	if c, ok := parseGrayLevel(name); ok {
		return c, nil
	}
	return RGB{}, fmt.Errorf("unknown color %q", s)
}

// parseGrayLevel handles X11 "grayN"/"greyN" for N in 0..100
func parseGrayLevel(name string) (RGB, bool) {
	var digits string
	switch {
	case strings.HasPrefix(name, "gray"):
		digits = name[len("gray"):]
	case strings.HasPrefix(name, "grey"):
		digits = name[len("grey"):]
	default:
		return RGB{}, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || n > 100 || digits[0] < '0' || digits[0] > '9' {
		return RGB{}, false
	}
	v := uint8(float64(n)*2.55 + 0.5)
	return RGB{R: v, G: v, B: v}, true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// parseHex handles 1 to 4 hex digits per channel, keeping the most
// significant 8 bits of each
func parseHex(digits string) (RGB, error) {
	n := len(digits)
	if n == 0 || n%3 != 0 || n > 12 {
		return RGB{}, fmt.Errorf("bad hex color %q", "#"+digits)
	}
	per := n / 3

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(digits[i*per:(i+1)*per], 16, 16)
		if err != nil {
			return RGB{}, fmt.Errorf("bad hex color %q", "#"+digits)
		}
		switch per {
		case 1:
			ch[i] = uint8(v * 17)
		case 2:
			ch[i] = uint8(v)
		case 3:
			ch[i] = uint8(v >> 4)
		case 4:
			ch[i] = uint8(v >> 8)
		}
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// parseFunc parses the argument list of rgb()/rgba() after the '('
func parseFunc(rest string, want int) (RGB, error) {
	if !strings.HasSuffix(rest, ")") {
		return RGB{}, fmt.Errorf("missing ')' in color")
	}
	parts := strings.Split(rest[:len(rest)-1], ",")
	if len(parts) != want {
		return RGB{}, fmt.Errorf("expected %d components, got %d", want, len(parts))
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := parseComponent(strings.TrimSpace(parts[i]))
		if err != nil {
			return RGB{}, err
		}
		ch[i] = v
	}
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return RGB{}, fmt.Errorf("bad alpha %q", parts[3])
		}
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// parseComponent accepts 0-255 or 0%-100%
func parseComponent(s string) (uint8, error) {
	if strings.HasSuffix(s, "%") {
		p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || p < 0 || p > 100 {
			return 0, fmt.Errorf("bad color component %q", s)
		}
		return uint8(p*255/100 + 0.5), nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 255 {
		return 0, fmt.Errorf("bad color component %q", s)
	}
	return uint8(v), nil
}
