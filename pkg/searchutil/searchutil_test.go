package searchutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwork/search-adapters/pkg/searchutil"
)

func TestParseQuery(t *testing.T) {
	t.Run("trims and truncates", func(t *testing.T) {
		long := make([]byte, searchutil.MaxQueryLength+50)
		for i := range long {
			long[i] = 'a'
		}

		query, err := searchutil.ParseQuery("  " + string(long) + "  ")
		require.NoError(t, err)
		assert.Len(t, query, searchutil.MaxQueryLength)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := searchutil.ParseQuery("   ")
		assert.ErrorIs(t, err, searchutil.ErrQueryRequired)
	})

	t.Run("rejects too short", func(t *testing.T) {
		_, err := searchutil.ParseQuery("a")
		assert.ErrorIs(t, err, searchutil.ErrQueryTooShort)
	})
}

func TestParseLimit(t *testing.T) {
	ten := 10
	tooBig := 500
	zero := 0

	assert.Equal(t, searchutil.DefaultLimit, searchutil.ParseLimit(nil))
	assert.Equal(t, 10, searchutil.ParseLimit(&ten))
	assert.Equal(t, searchutil.MaxLimit, searchutil.ParseLimit(&tooBig))
	assert.Equal(t, 1, searchutil.ParseLimit(&zero))
}

func TestScoreTextMatch(t *testing.T) {
	cases := []struct {
		name     string
		haystack string
		needle   string
		want     int
	}{
		{"empty haystack", "", "x", 0},
		{"exact", "Quarterly Report", "quarterly report", 220},
		{"prefix", "Quarterly Report Q3", "quarterly report", 170},
		{"no match", "Budget", "quarterly", 0},
		{"early substring", "the quarterly numbers", "quarterly", 120 + (40 - 4/4)},
		{"late substring", strings_repeat("x", 200) + "quarterly", "quarterly", 120},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, searchutil.ScoreTextMatch(tc.haystack, tc.needle))
		})
	}
}

func strings_repeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func TestExtractSnippet(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		assert.Equal(t, "", searchutil.ExtractSnippet("", "x", searchutil.DefaultSnippetRadius))
	})

	t.Run("no match falls back to prefix", func(t *testing.T) {
		text := "alpha beta gamma delta"
		got := searchutil.ExtractSnippet(text, "zzz", 5)
		assert.Equal(t, "alpha beta…", got)
	})

	t.Run("match centered with ellipses", func(t *testing.T) {
		text := "start " + strings_repeat("padding ", 30) + "needle " + strings_repeat("padding ", 30) + "end"
		got := searchutil.ExtractSnippet(text, "needle", searchutil.DefaultSnippetRadius)
		assert.True(t, len(got) > 0)
		assert.Contains(t, got, "needle")
		assert.Contains(t, got, "…")
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		got := searchutil.ExtractSnippet("alpha\n\n  beta", "beta", searchutil.DefaultSnippetRadius)
		assert.Equal(t, "alpha beta", got)
	})
}

func TestSortTimeValue(t *testing.T) {
	assert.Equal(t, float64(0), searchutil.SortTimeValue(""))
	assert.Equal(t, float64(0), searchutil.SortTimeValue("not-a-time"))
	assert.Greater(t, searchutil.SortTimeValue("2024-01-02T15:04:05Z"), float64(0))
}
