package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// NormalizeText collapses internal whitespace runs to a single space and trims
// both ends.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsExactMatch compares two normalized texts case-insensitively.
func IsExactMatch(reference, candidate string) bool {
	return lower(reference) == lower(candidate)
}

func lower(s string) string { return strings.ToLower(s) }

var numberRE = regexp.MustCompile(`\b\d+(\.\d+)?\b`)

// ExtractNumbers returns every decimal literal in text, in order. Matches that
// fail to parse are skipped.
func ExtractNumbers(text string) []float64 {
	matches := numberRE.FindAllString(text, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func tokenCount(text string) int { return len(strings.Fields(text)) }

func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// round2 rounds half away from zero to two decimals.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
