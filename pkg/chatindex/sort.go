package chatindex

import (
	"sort"

	"github.com/openwork/search-adapters/pkg/searchutil"
)

// sortResults orders by score descending, then by createdAt descending,
// with unparseable or missing timestamps sorting as the oldest.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return searchutil.SortTimeValue(results[i].CreatedAt) > searchutil.SortTimeValue(results[j].CreatedAt)
	})
}
