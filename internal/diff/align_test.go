package diff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decimal = Options{NumberDiff: true, Radix: 10}

func classes(lines []Line) [][]Class {
	out := make([][]Class, len(lines))
	for i, l := range lines {
		for _, w := range l.Words {
			out[i] = append(out[i], w.Class)
		}
	}
	return out
}

func TestAlignIdenticalFrames(t *testing.T) {
	text := "  PID TTY          TIME CMD\n 4242 pts/0    00:00:01 bash\n"

	lines := Align(text, text, decimal)
	require.Len(t, lines, 3)
	for i, l := range lines {
		assert.Equal(t, i, l.Match)
		for _, w := range l.Words {
			assert.Equal(t, Unchanged, w.Class, "word %q on line %d", w.Text, i)
		}
	}
}

func TestAlignNumberIncrease(t *testing.T) {
	lines := Align("cpu: 12%", "cpu: 10%", decimal)

	want := [][]Class{{Unchanged, Increased}}
	if diff := cmp.Diff(want, classes(lines)); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestAlignNumberDecrease(t *testing.T) {
	lines := Align("cpu: 10%", "cpu: 12%", decimal)
	assert.Equal(t, [][]Class{{Unchanged, Decreased}}, classes(lines))
}

func TestAlignEqualValueFoldsToDecreased(t *testing.T) {
	lines := Align("a 010", "a 10", decimal)
	assert.Equal(t, [][]Class{{Unchanged, Decreased}}, classes(lines))
}

func TestAlignNonDecimalLiteralsStayChanged(t *testing.T) {
	lines := Align("a 0x1p4 1_000", "a 0x0p1 2_000", decimal)
	assert.Equal(t, [][]Class{{Unchanged, Changed, Changed}}, classes(lines))
}

func TestAlignWithoutNumberDiff(t *testing.T) {
	lines := Align("cpu: 12%", "cpu: 10%", Options{Radix: 10})
	assert.Equal(t, [][]Class{{Unchanged, Changed}}, classes(lines))
}

func TestAlignSingleChangedWord(t *testing.T) {
	lines := Align("eth0 up 1500 ok", "eth0 down 1500 ok", decimal)

	want := [][]Class{{Unchanged, Changed, Unchanged, Unchanged}}
	if diff := cmp.Diff(want, classes(lines)); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, lines[0].Words[1].Match)
}

func TestAlignShiftedLines(t *testing.T) {
	prev := "header\nalpha 1\nbeta 2\ngamma 3"
	cur := "header\nnew row\nalpha 1\nbeta 2\ngamma 3"

	lines := Align(cur, prev, decimal)
	require.Len(t, lines, 5)
	assert.Equal(t, 0, lines[0].Match)
	assert.Equal(t, []int{1, 2, 3}, []int{lines[2].Match, lines[3].Match, lines[4].Match})
	for _, l := range lines[2:] {
		for _, w := range l.Words {
			assert.Equal(t, Unchanged, w.Class)
		}
	}
}

func TestAlignEmptyPrevious(t *testing.T) {
	lines := Align("load 0.10\n", "", decimal)

	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, 0, l.Match)
		for _, w := range l.Words {
			assert.Equal(t, Unchanged, w.Class)
		}
	}
}

func TestAlignConsecutiveSpacesAreWords(t *testing.T) {
	lines := Align("a  b", "a  b", decimal)
	require.Len(t, lines[0].Words, 3)
	assert.Equal(t, "", lines[0].Words[1].Text)
}

func TestAlignDistantWordIsNew(t *testing.T) {
	cur := strings.TrimSpace(strings.Repeat("qqqq ", 36))

	lines := Align(cur, "zzzz", decimal)
	words := lines[0].Words
	require.Len(t, words, 36)
	assert.Equal(t, Changed, words[0].Class)
	assert.Equal(t, New, words[35].Class)
}

func TestAlignLinesTieGoesToLaterCandidate(t *testing.T) {
	got := AlignLines([]string{"z", "q"}, []string{"q", "y", "q"})
	assert.Equal(t, []int{0, 2}, got)
}

func TestAlignWordsTieGoesToLaterCandidate(t *testing.T) {
	matches, scores := AlignWords([]string{"b", "x"}, []string{"x", "y", "x"})
	assert.Equal(t, 2, matches[1])
	assert.InDelta(t, WordScore("x", "x", 1, 0), scores[1], 1e-12)
}

func TestClassify(t *testing.T) {
	hex := Options{NumberDiff: true, Radix: 16}

	tests := []struct {
		name      string
		cur, prev string
		score     float64
		opts      Options
		want      Class
	}{
		{"identical", "ok", "ok", 1, decimal, Unchanged},
		{"prefix only", "10", "100", 0.9, decimal, Unchanged},
		{"low score", "x", "y", 0.4, decimal, New},
		{"threshold is exclusive", "x", "y", 0.5, decimal, New},
		{"changed text", "up", "down", 0.8, decimal, Changed},
		{"increase", "12%", "10%", 0.95, decimal, Increased},
		{"hex increase", "ff", "fe", 0.9, hex, Increased},
		{"hex decrease", "fe", "ff", 0.9, hex, Decreased},
		{"one side not numeric", "12", "ab", 0.9, decimal, Changed},
		{"number diff disabled", "12", "10", 0.9, Options{Radix: 10}, Changed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.cur, tt.prev, tt.score, tt.opts))
		})
	}
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "increased", Increased.String())
	assert.Equal(t, "unknown", Class(42).String())
}

func BenchmarkAlign(b *testing.B) {
	var prev, cur strings.Builder
	for i := 0; i < 60; i++ {
		prev.WriteString("root      1234  0.0  0.1 168000 11000 ?  Ss   10:00   0:01 /sbin/init\n")
		cur.WriteString("root      1234  0.1  0.1 168000 11024 ?  Ss   10:00   0:02 /sbin/init\n")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Align(cur.String(), prev.String(), decimal)
	}
}
