package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches locale-formatted decimals like "62,100.00".
var numberPattern = regexp.MustCompile(`[\d,]+\.?\d*`)

// parseNumber strips thousand separators and parses a decimal.
// Returns 0 when the token is not a number.
func parseNumber(s string) float64 {
	n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0
	}
	return n
}

// numbersIn returns every parseable number on a line, in order.
func numbersIn(line string) []float64 {
	var out []float64
	for _, tok := range numberPattern.FindAllString(line, -1) {
		if n := parseNumber(tok); n != 0 {
			out = append(out, n)
		}
	}
	return out
}

// firstInRange returns the first number on the line falling inside the
// window, or 0.
func firstInRange(line string, min, max float64) float64 {
	for _, n := range numbersIn(line) {
		if n > min && n < max {
			return n
		}
	}
	return 0
}
