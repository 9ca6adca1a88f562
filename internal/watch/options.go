package watch

import (
	"time"

	"github.com/berrythewa/neowatch/internal/diff"
	"github.com/berrythewa/neowatch/internal/types"
	"github.com/berrythewa/neowatch/pkg/format"
)

// Options is the immutable configuration of one watch session
type Options struct {
	Interval     time.Duration
	ShowDiff     bool
	Precise      bool
	ExitOnError  bool
	ExitOnChange bool
	NumberDiff   bool
	Radix        int
	Palette      format.Palette
	Command      string
	Args         []string

	Header bool
	Count  int // frames to show before stopping; 0 means no limit
}

// DefaultOptions returns the options used when no flag or config overrides them
func DefaultOptions() Options {
	return Options{
		Interval: time.Second,
		Radix:    10,
		Palette:  format.DefaultPalette(),
	}
}

// Validate rejects options the loop cannot run with
func (o Options) Validate() error {
	if o.Command == "" {
		return types.NewInvalidArgs("no command given")
	}
	if o.Interval < 0 {
		return types.NewInvalidArgs("interval must not be negative: %s", o.Interval)
	}
	if o.Radix < diff.MinRadix || o.Radix > diff.MaxRadix {
		return types.NewInvalidArgs("radix must be between %d and %d, got %d", diff.MinRadix, diff.MaxRadix, o.Radix)
	}
	if o.Count < 0 {
		return types.NewInvalidArgs("count must not be negative, got %d", o.Count)
	}
	return nil
}

// RenderOptions derives the renderer configuration
func (o Options) RenderOptions() format.Options {
	return format.Options{
		ShowDiff: o.ShowDiff,
		Diff: diff.Options{
			NumberDiff: o.NumberDiff,
			Radix:      o.Radix,
		},
		Palette: o.Palette,
	}
}
