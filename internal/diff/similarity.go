// Package diff aligns the output of two consecutive runs line by line and
// word by word, and classifies every word of the newer run.
//
// The alignment is a local heuristic tuned for mostly stable tabular output
// such as ps or df. It is not an edit-distance diff.
package diff

// Similarity compares a and b rune by rune over their common length and
// returns (matches+1)/(compared+1). The result is in (0, 1]; a string is
// fully similar to itself and to the empty string.
func Similarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	n := len(ra)
	if len(rb) < n {
		n = len(rb)
	}

	matches := 1
	for i := 0; i < n; i++ {
		if ra[i] == rb[i] {
			matches++
		}
	}
	return float64(matches) / float64(n+1)
}
