package officeindex

import (
	"path/filepath"
	"strings"

	"github.com/openwork/search-adapters/pkg/searchutil"
)

type rankedMatch struct {
	score     int
	matchKind string
	snippet   string
}

// computeRankedMatch scores one document against a lower-cased, whitespace
// normalized query, returning nil when the document does not match at all.
// An exact filename match always outranks a content hit, which in turn
// always outranks a weaker filename substring hit.
func computeRankedMatch(filePath, title, content, needleLower string) *rankedMatch {
	normalizedContent := strings.ToLower(normalizeWhitespace(content))
	normalizedNeedle := strings.ToLower(normalizeWhitespace(needleLower))

	stem := title
	if stem == "" {
		stem = filePath
	}
	stemLower := strings.ToLower(strings.TrimSuffix(filepath.Base(stem), filepath.Ext(stem)))

	pathScore := maxInt(
		searchutil.ScoreTextMatch(filePath, normalizedNeedle),
		searchutil.ScoreTextMatch(title, normalizedNeedle),
		searchutil.ScoreTextMatch(stemLower, normalizedNeedle),
	)

	filenameExact := stemLower == normalizedNeedle
	contentExactPhrase := false
	contentPartial := false

	if normalizedContent != "" {
		switch {
		case normalizedContent == normalizedNeedle:
			contentExactPhrase = true
		case strings.Contains(" "+normalizedContent+" ", " "+normalizedNeedle+" "):
			contentExactPhrase = true
		case searchutil.ScoreTextMatch(normalizedContent, normalizedNeedle) > 0:
			contentPartial = true
		}
	}

	switch {
	case filenameExact:
		snippet := ""
		if contentExactPhrase || contentPartial {
			snippet = searchutil.ExtractSnippet(content, normalizedNeedle, searchutil.DefaultSnippetRadius)
		}
		return &rankedMatch{score: 3000 + maxInt(pathScore, 1), matchKind: "filename-exact", snippet: snippet}

	case contentExactPhrase:
		base := searchutil.ScoreTextMatch(normalizedContent, normalizedNeedle)
		return &rankedMatch{
			score:     2000 + maxInt(base, 1),
			matchKind: "content-exact-phrase",
			snippet:   searchutil.ExtractSnippet(content, normalizedNeedle, searchutil.DefaultSnippetRadius),
		}

	case contentPartial:
		base := searchutil.ScoreTextMatch(normalizedContent, normalizedNeedle)
		return &rankedMatch{
			score:     1000 + maxInt(base, 1),
			matchKind: "content-partial",
			snippet:   searchutil.ExtractSnippet(content, normalizedNeedle, searchutil.DefaultSnippetRadius),
		}

	case pathScore > 0:
		return &rankedMatch{score: 800 + pathScore, matchKind: "filename-partial"}

	default:
		return nil
	}
}

func normalizeWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func maxInt(values ...int) int {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
