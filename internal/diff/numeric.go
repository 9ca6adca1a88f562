package diff

import (
	"strconv"
	"strings"
)

const (
	MinRadix = 2
	MaxRadix = 36
)

// FindNumeric locates the numeric token in text and parses it under radix.
//
// The token spans from the first to the last rune that is a digit in radix.
// Dots are allowed inside it; any other rune in between makes the parse
// fail. Radix 10 accepts a fractional part, other radixes do not.
func FindNumeric(text string, radix int) (float64, bool) {
	if radix < MinRadix || radix > MaxRadix {
		return 0, false
	}

	start, end := -1, -1
	for i, r := range text {
		if r == '.' {
			continue
		}
		if isDigit(r, radix) {
			if start < 0 {
				start = i
			}
			end = i
		}
	}
	if start < 0 {
		return 0, false
	}

	// digits are ASCII so end+1 is the byte after the last digit
	token := text[start : end+1]

	if radix == 10 {
		// ParseFloat also takes underscores and hex floats; plain decimal only
		if strings.IndexFunc(token, notDecimalRune) >= 0 {
			return 0, false
		}
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	if strings.Contains(token, ".") {
		return 0, false
	}
	v, err := strconv.ParseUint(token, radix, 64)
	if err != nil {
		return 0, false
	}
	return float64(v), true
}

func notDecimalRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '.', r == 'e', r == 'E', r == '+', r == '-':
		return false
	}
	return true
}

func isDigit(r rune, radix int) bool {
	var v int
	switch {
	case r >= '0' && r <= '9':
		v = int(r - '0')
	case r >= 'a' && r <= 'z':
		v = int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		v = int(r-'A') + 10
	default:
		return false
	}
	return v < radix
}
