package searchutil

import (
	"regexp"
	"strings"
)

// DefaultSnippetRadius is the number of characters kept on each side of a
// match when no explicit radius is given.
const DefaultSnippetRadius = 90

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExtractSnippet collapses text's whitespace and returns a window of it
// centered on the first occurrence of needleLower, ellipsized at either end
// that was cut. When needleLower does not occur, it falls back to the first
// 2*radius characters of the normalized text. Returns "" when text is blank.
func ExtractSnippet(text, needleLower string, radius int) string {
	if text == "" {
		return ""
	}

	normalized := strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	if normalized == "" {
		return ""
	}

	runes := []rune(normalized)
	lower := strings.ToLower(normalized)
	lowerRunes := []rune(lower)

	index := indexOfRunes(lowerRunes, []rune(needleLower))
	if index == -1 {
		end := radius * 2
		if end > len(runes) {
			end = len(runes)
		}
		fallback := string(runes[:end])
		if len(runes) > end {
			return fallback + "…"
		}
		return fallback
	}

	needleLen := len([]rune(needleLower))
	start := index - radius
	if start < 0 {
		start = 0
	}
	end := index + needleLen + radius
	if end > len(runes) {
		end = len(runes)
	}

	snippet := strings.TrimSpace(string(runes[start:end]))
	prefix := ""
	if start > 0 {
		prefix = "…"
	}
	suffix := ""
	if end < len(runes) {
		suffix = "…"
	}

	return prefix + snippet + suffix
}

func indexOfRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	if len(needle) > len(haystack) {
		return -1
	}

	for i := 0; i <= len(haystack)-len(needle); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}

	return -1
}
