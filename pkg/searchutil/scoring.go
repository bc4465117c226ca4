package searchutil

import (
	"strings"
	"time"
)

const (
	scoreExact        = 220
	scorePrefix       = 170
	scoreSubstringBase = 120
	earlyBonusCap     = 40
	earlyBonusDivisor = 4
)

// ScoreTextMatch ranks haystack against a lower-cased needle: an exact
// case-insensitive match scores highest, a prefix match next, and any other
// occurrence scores based on how early it appears. Zero means no match.
func ScoreTextMatch(haystack, needleLower string) int {
	if haystack == "" {
		return 0
	}

	value := strings.ToLower(haystack)
	if value == needleLower {
		return scoreExact
	}
	if strings.HasPrefix(value, needleLower) {
		return scorePrefix
	}

	index := strings.Index(value, needleLower)
	if index == -1 {
		return 0
	}

	earlyBonus := earlyBonusCap - index/earlyBonusDivisor
	if earlyBonus < 0 {
		earlyBonus = 0
	}

	return scoreSubstringBase + earlyBonus
}

// SortTimeValue best-effort parses an RFC3339-ish timestamp into a Unix
// epoch float for descending-time sort comparisons. Unparseable or empty
// input sorts as the oldest possible value.
func SortTimeValue(raw string) float64 {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return float64(parsed.UnixNano()) / float64(time.Second)
		}
	}

	return 0
}
