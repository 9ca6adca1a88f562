package format

import (
	"fmt"

	"github.com/berrythewa/neowatch/internal/diff"
)

// Default color names for each highlighted class
const (
	DefaultNewColor      = "green"
	DefaultChangeColor   = "cyan"
	DefaultIncreaseColor = "yellow"
	DefaultDecreaseColor = "magenta"
)

// Palette holds the escape sequence used for each highlighted class
type Palette struct {
	New       string
	Changed   string
	Increased string
	Decreased string
}

// DefaultPalette returns the built-in highlight colors
func DefaultPalette() Palette {
	return Palette{
		New:       Green,
		Changed:   Cyan,
		Increased: Yellow,
		Decreased: Magenta,
	}
}

// ParsePalette builds a palette from four color specs
func ParsePalette(newColor, changeColor, increaseColor, decreaseColor string) (Palette, error) {
	var p Palette
	for _, c := range []struct {
		name string
		spec string
		dst  *string
	}{
		{"new", newColor, &p.New},
		{"change", changeColor, &p.Changed},
		{"increase", increaseColor, &p.Increased},
		{"decrease", decreaseColor, &p.Decreased},
	} {
		seq, err := ParseColor(c.spec)
		if err != nil {
			return Palette{}, fmt.Errorf("%s color: %w", c.name, err)
		}
		*c.dst = seq
	}
	return p, nil
}

// For returns the sequence for class c, or "" for unchanged words
func (p Palette) For(c diff.Class) string {
	switch c {
	case diff.New:
		return p.New
	case diff.Changed:
		return p.Changed
	case diff.Increased:
		return p.Increased
	case diff.Decreased:
		return p.Decreased
	default:
		return ""
	}
}

// Options controls how frames are rendered
type Options struct {
	ShowDiff bool
	Diff     diff.Options
	Palette  Palette
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		Diff:    diff.Options{Radix: 10},
		Palette: DefaultPalette(),
	}
}
