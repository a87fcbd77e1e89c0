package diag

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SuggestRole returns the candidate role name closest to name, or "" when
// nothing is plausibly close. Used to enrich undeclared-role messages.
func SuggestRole(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
