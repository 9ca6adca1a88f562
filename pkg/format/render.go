// Package format renders captured frames, with or without change
// highlighting, and the small amount of chrome around them.
package format

import (
	"bytes"

	"github.com/berrythewa/neowatch/internal/diff"
)

// Renderer writes frames into a buffer so a whole frame can be flushed at once
type Renderer struct {
	options Options
}

// NewRenderer creates a renderer with the given options
func NewRenderer(opts Options) *Renderer {
	return &Renderer{options: opts}
}

// Frame renders current into buf. Without diffing the text is copied
// verbatim and no alignment is computed.
func (r *Renderer) Frame(buf *bytes.Buffer, current, previous string) {
	if !r.options.ShowDiff {
		buf.WriteString(current)
		return
	}
	r.Render(buf, diff.Align(current, previous, r.options.Diff))
}

// Render writes aligned lines, coloring every word that is not unchanged
func (r *Renderer) Render(buf *bytes.Buffer, lines []diff.Line) {
	for i, line := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		for k, w := range line.Words {
			if k > 0 {
				buf.WriteByte(' ')
			}
			color := r.options.Palette.For(w.Class)
			buf.WriteString(ColorizeIf(w.Text, color, color != ""))
		}
	}
}

// RenderString is a convenience wrapper around Frame
func RenderString(opts Options, current, previous string) string {
	var buf bytes.Buffer
	NewRenderer(opts).Frame(&buf, current, previous)
	return buf.String()
}
