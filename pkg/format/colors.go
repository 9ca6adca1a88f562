package format

import (
	"fmt"
	"strconv"
	"strings"
)

// ANSI color codes
const (
	Reset     = "\033[0m"
	Bold      = "\033[1m"
	Dim       = "\033[2m"

	// Colors
	Black   = "\033[30m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"

	// Bright colors
	Gray          = "\033[90m"
	BrightRed     = "\033[91m"
	BrightGreen   = "\033[92m"
	BrightYellow  = "\033[93m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"
	BrightWhite   = "\033[97m"
)

var namedColors = map[string]string{
	"black":          Black,
	"red":            Red,
	"green":          Green,
	"yellow":         Yellow,
	"blue":           Blue,
	"magenta":        Magenta,
	"cyan":           Cyan,
	"white":          White,
	"gray":           Gray,
	"grey":           Gray,
	"bright-black":   Gray,
	"bright-red":     BrightRed,
	"bright-green":   BrightGreen,
	"bright-yellow":  BrightYellow,
	"bright-blue":    BrightBlue,
	"bright-magenta": BrightMagenta,
	"bright-cyan":    BrightCyan,
	"bright-white":   BrightWhite,
}

// ParseColor turns a color spec into a set-foreground escape sequence.
// Accepted forms: a color name ("cyan", "bright-red"), an ANSI-256 index
// ("208"), an RGB triple ("255,128,0") or a hex triple ("#ff8000").
func ParseColor(spec string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return "", fmt.Errorf("empty color")
	}

	if seq, ok := namedColors[s]; ok {
		return seq, nil
	}

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 {
			return "", fmt.Errorf("invalid hex color %q", spec)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return "", fmt.Errorf("invalid hex color %q", spec)
		}
		return rgb(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return "", fmt.Errorf("invalid rgb color %q", spec)
		}
		var c [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return "", fmt.Errorf("invalid rgb color %q", spec)
			}
			c[i] = uint8(v)
		}
		return rgb(c[0], c[1], c[2]), nil
	}

	if v, err := strconv.ParseUint(s, 10, 8); err == nil {
		return fmt.Sprintf("\033[38;5;%dm", v), nil
	}

	return "", fmt.Errorf("unknown color %q", spec)
}

func rgb(r, g, b uint8) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", r, g, b)
}

// ColorizeIf applies color only if useColors is true
func ColorizeIf(text, color string, useColors bool) string {
	if !useColors {
		return text
	}
	return color + text + Reset
}

// BoldIf applies bold only if useColors is true
func BoldIf(text string, useColors bool) string {
	if !useColors {
		return text
	}
	return Bold + text + Reset
}

// DimIf applies dim only if useColors is true
func DimIf(text string, useColors bool) string {
	if !useColors {
		return text
	}
	return Dim + text + Reset
}
