// Package query cleans free-text search queries before they are sent to
// marketplace APIs.
package query

import "strings"

// stopWords are intent and domain words stripped from queries. The set is
// bilingual (English and Russian) to match the query languages the service
// sees in practice.
var stopWords = map[string]struct{}{
	"buy":    {},
	"price":  {},
	"cheap":  {},
	"best":   {},
	"find":   {},
	"search": {},
	"купить": {},
	"цена":   {},
	"поиск":  {},
	"лучший": {},
	"дешево": {},
	"найти":  {},
}

// Normalize lower-cases the query, drops stop-word tokens, and rejoins the
// survivors with single spaces. It never fails: an all-stop-word input
// yields an empty string, which adapters must tolerate. Normalize is
// idempotent.
func Normalize(q string) string {
	words := strings.Fields(strings.ToLower(q))

	keep := words[:0]
	for _, w := range words {
		if _, stop := stopWords[w]; !stop {
			keep = append(keep, w)
		}
	}

	return strings.Join(keep, " ")
}
