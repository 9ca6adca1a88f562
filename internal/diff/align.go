package diff

import (
	"math"
	"strings"
)

// Alpha dampens the positional penalty for word matches
const Alpha = 5.0

const (
	changedThreshold = 0.5
	epsilon          = 1e-9
)

// Class is the classification of one word of the current run
type Class int

const (
	Unchanged Class = iota
	Changed
	Increased
	Decreased
	New
)

func (c Class) String() string {
	switch c {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case Increased:
		return "increased"
	case Decreased:
		return "decreased"
	case New:
		return "new"
	default:
		return "unknown"
	}
}

// Options controls word classification
type Options struct {
	NumberDiff bool
	Radix      int
}

// Word is one space-delimited token of a current line and its best match
type Word struct {
	Text  string
	Match int
	Class Class
}

// Line is one current line, the previous line it was aligned with and its words
type Line struct {
	Match int
	Words []Word
}

// Align aligns current against previous and classifies every word of current.
// An empty previous text still yields one (empty) previous line to match.
func Align(current, previous string, opts Options) []Line {
	cur := strings.Split(current, "\n")
	prev := strings.Split(previous, "\n")

	matches := AlignLines(cur, prev)
	lines := make([]Line, len(cur))
	for i, text := range cur {
		prevLine := ""
		if matches[i] >= 0 {
			prevLine = prev[matches[i]]
		}
		lines[i] = Line{
			Match: matches[i],
			Words: alignLine(text, prevLine, opts),
		}
	}
	return lines
}

// AlignLines returns, for each current line, the index of the best previous
// line. Equal scores resolve to the later previous line.
func AlignLines(cur, prev []string) []int {
	matches := make([]int, len(cur))
	for i, line := range cur {
		matches[i], _ = best(len(prev), func(j int) float64 {
			return LineScore(line, prev[j], i, j)
		})
	}
	return matches
}

// AlignWords returns, for each current word, the index of the best previous
// word and the decayed score of that match.
func AlignWords(cur, prev []string) ([]int, []float64) {
	matches := make([]int, len(cur))
	scores := make([]float64, len(cur))
	for k, word := range cur {
		matches[k], scores[k] = best(len(prev), func(m int) float64 {
			return WordScore(word, prev[m], k, m)
		})
	}
	return matches, scores
}

// LineScore is the line similarity decayed by positional distance
func LineScore(cur, prev string, i, j int) float64 {
	return Similarity(cur, prev) / float64(1+abs(i-j))
}

// WordScore is the word similarity decayed by the square root of positional distance
func WordScore(cur, prev string, k, m int) float64 {
	return (Alpha + Similarity(cur, prev)) / (Alpha + math.Sqrt(float64(1+abs(k-m))))
}

// Classify decides the class of cur given its matched previous word and the
// decayed score of that match.
func Classify(cur, prev string, score float64, opts Options) Class {
	if math.Abs(Similarity(cur, prev)-1.0) < epsilon {
		return Unchanged
	}
	if score <= changedThreshold {
		return New
	}
	if opts.NumberDiff {
		c, okCur := FindNumeric(cur, opts.Radix)
		p, okPrev := FindNumeric(prev, opts.Radix)
		if okCur && okPrev {
			if c > p {
				return Increased
			}
			return Decreased
		}
	}
	return Changed
}

func alignLine(cur, prev string, opts Options) []Word {
	curWords := strings.Split(cur, " ")
	prevWords := strings.Split(prev, " ")

	matches, scores := AlignWords(curWords, prevWords)
	words := make([]Word, len(curWords))
	for k, text := range curWords {
		words[k] = Word{
			Text:  text,
			Match: matches[k],
			Class: Classify(text, prevWords[matches[k]], scores[k], opts),
		}
	}
	return words
}

// best returns the index with the highest score among n candidates, the
// last one on ties, or -1 when there are none.
func best(n int, score func(int) float64) (int, float64) {
	idx := -1
	top := math.Inf(-1)
	for j := 0; j < n; j++ {
		if s := score(j); s >= top {
			idx, top = j, s
		}
	}
	return idx, top
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
