package advisor

import (
	"strings"

	"ratedash/internal/domain"
)

// ExtractPairs scans the user message for currency pair mentions.
// Explicit pairs ("EURUSD", "EUR/USD") are taken as-is; bare codes are
// paired in order of mention, and a single lone code pairs with USD.
// Returns deduplicated "FROM/TO" strings.
func ExtractPairs(text string) []string {
	upper := strings.ToUpper(text)
	words := strings.FieldsFunc(upper, func(r rune) bool {
		return !((r >= 'A' && r <= 'Z') || r == '/')
	})

	seen := make(map[string]bool)
	var pairs []string
	addPair := func(from, to string) {
		key := from + "/" + to
		if from != to && !seen[key] {
			seen[key] = true
			pairs = append(pairs, key)
		}
	}

	var loneCodes []string
	for _, w := range words {
		if from, to, err := domain.ParsePair(w); err == nil && (len(w) == 6 || len(w) == 7) {
			addPair(from, to)
			continue
		}
		if len(w) == 3 && domain.IsSupported(w) {
			loneCodes = append(loneCodes, w)
		}
	}

	for i := 0; i+1 < len(loneCodes); i += 2 {
		addPair(loneCodes[i], loneCodes[i+1])
	}
	if len(loneCodes)%2 == 1 {
		last := loneCodes[len(loneCodes)-1]
		if last != "USD" {
			addPair(last, "USD")
		}
	}

	return pairs
}
