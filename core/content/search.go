package content

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/pacclub/pacsite/core"
)

// minTitleSimilarity is the ratio below which a non-substring title match
// is discarded.
const minTitleSimilarity = 0.6

// SearchRecords filters records by a case-insensitive title match.
// Substring matches always qualify; otherwise the title must be similar
// enough to the query to catch near-misses in spelling.
func SearchRecords(recs []Record, query string) []Record {
	q := core.CleanString(query, true)
	if q == "" {
		return recs
	}

	matched := make([]Record, 0, len(recs))
	for _, rec := range recs {
		title := core.CleanString(rec.Title, true)
		if strings.Contains(title, q) || strings.Contains(rec.Number, q) {
			matched = append(matched, rec)
			continue
		}
		if similarity(title, q) >= minTitleSimilarity {
			matched = append(matched, rec)
		}
	}
	return matched
}

func similarity(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}
