package vat

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Quantities are limited to the magnitudes a float64 can hold. Beyond them
// decimal division either panics or grows 10^exp without bound.
const (
	maxMagnitude = 308
	minMagnitude = -324
)

// ParseQuantity reads the longest leading decimal literal from user text.
// Trailing garbage is ignored ("12kg" is 12). Text with no numeric prefix,
// and values outside the float64 range, read as zero.
//
// "Infinity" reads as zero on purpose, unlike a float parse.
func ParseQuantity(text string) decimal.Decimal {
	literal := numericPrefix(strings.TrimSpace(text))
	if literal == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(literal)
	if err != nil || d.IsZero() {
		return decimal.Zero
	}

	// d = coefficient * 10^exp, so its leading digit sits at 10^magnitude
	magnitude := int64(d.Exponent()) + int64(d.NumDigits()) - 1
	if magnitude > maxMagnitude || magnitude < minMagnitude {
		return decimal.Zero
	}
	return d
}

// numericPrefix returns the leading literal normalised to a form
// decimal.NewFromString accepts: no '+', no bare '.', no dangling exponent.
func numericPrefix(s string) string {
	var b strings.Builder
	i := 0

	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		if s[i] == '-' {
			b.WriteByte('-')
		}
		i++
	}

	intStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	intPart := s[intStart:i]

	fracPart := ""
	if i < len(s) && s[i] == '.' {
		fracStart := i + 1
		j := fracStart
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		fracPart = s[fracStart:j]
		i = j
	}

	if intPart == "" && fracPart == "" {
		return ""
	}
	if intPart == "" {
		intPart = "0"
	}
	b.WriteString(intPart)
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		neg := false
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			neg = s[j] == '-'
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			b.WriteByte('e')
			if neg {
				b.WriteByte('-')
			}
			b.WriteString(s[expStart:j])
		}
	}

	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
