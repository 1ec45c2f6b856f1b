package playback

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// MatchQuality resolves a user supplied label against the offered levels.
// Exact matches win, then the closest fuzzy match.
func MatchQuality(query string, levels []Quality) (Quality, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: empty", ErrUnknownQuality)
	}

	if exact, ok := lo.Find(levels, func(q Quality) bool {
		return strings.EqualFold(string(q), query)
	}); ok {
		return exact, nil
	}

	labels := lo.Map(levels, func(q Quality, _ int) string { return string(q) })
	ranks := fuzzy.RankFindFold(query, labels)
	if len(ranks) == 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownQuality, query)
	}

	best := lo.MinBy(ranks, func(a, b fuzzy.Rank) bool {
		return a.Distance < b.Distance
	})
	return Quality(best.Target), nil
}
