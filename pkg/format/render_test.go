package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/berrythewa/neowatch/internal/diff"
)

func diffOptions(numberDiff bool) Options {
	opts := DefaultOptions()
	opts.ShowDiff = true
	opts.Diff.NumberDiff = numberDiff
	return opts
}

func TestFrameWithoutDiffIsVerbatim(t *testing.T) {
	opts := DefaultOptions()
	cur := "Filesystem  Size  Used\n/dev/sda1    50G   12G\n"

	assert.Equal(t, cur, RenderString(opts, cur, "something else entirely\n"))
}

func TestFrameIdenticalHasNoColor(t *testing.T) {
	cur := "Filesystem  Size  Used\n/dev/sda1    50G   12G\n"

	got := RenderString(diffOptions(true), cur, cur)
	assert.Equal(t, cur, got)
	assert.NotContains(t, got, "\033[")
}

func TestFrameHighlightsIncrease(t *testing.T) {
	got := RenderString(diffOptions(true), "cpu: 12%", "cpu: 10%")
	assert.Equal(t, "cpu: "+Yellow+"12%"+Reset, got)
}

func TestFrameHighlightsChange(t *testing.T) {
	got := RenderString(diffOptions(false), "cpu: 12%", "cpu: 10%")
	assert.Equal(t, "cpu: "+Cyan+"12%"+Reset, got)
}

func TestFrameFirstRunIsPlain(t *testing.T) {
	cur := "uptime 3 days\n"
	assert.Equal(t, cur, RenderString(diffOptions(true), cur, ""))
}

func TestRenderUsesPalette(t *testing.T) {
	opts := diffOptions(true)
	opts.Palette = Palette{New: "<N>", Changed: "<C>", Increased: "<I>", Decreased: "<D>"}

	lines := []diff.Line{
		{Words: []diff.Word{
			{Text: "a", Class: diff.Unchanged},
			{Text: "b", Class: diff.New},
			{Text: "c", Class: diff.Changed},
		}},
		{Words: []diff.Word{
			{Text: "1", Class: diff.Increased},
			{Text: "", Class: diff.Unchanged},
			{Text: "0", Class: diff.Decreased},
		}},
	}

	var buf bytes.Buffer
	NewRenderer(opts).Render(&buf, lines)
	assert.Equal(t, "a <N>b"+Reset+" <C>c"+Reset+"\n<I>1"+Reset+"  <D>0"+Reset, buf.String())
}

func TestRendererAppendsToBuffer(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("header\n")

	NewRenderer(DefaultOptions()).Frame(&buf, "body\n", "")
	assert.Equal(t, "header\nbody\n", buf.String())
}
