// internal/workers/scholarship/rank-candidates/ranker.go
package rankcandidates

import (
	"sort"

	"scholarship-workers/internal/models"
	calculatematchscore "scholarship-workers/internal/workers/scholarship/calculate-match-score"
)

// Rank scores every candidate, orders them by descending score keeping input
// order among equal scores, drops those below MinScore and keeps at most Limit.
func Rank(profile models.Profile, candidates []models.Scholarship, opts Options) []models.MatchResult {
	opts = opts.withDefaults()

	ranked := make([]models.MatchResult, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, calculatematchscore.Score(profile, c))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	kept := ranked[:0]
	for _, r := range ranked {
		if r.Score >= *opts.MinScore {
			kept = append(kept, r)
		}
	}

	if len(kept) > opts.Limit {
		kept = kept[:opts.Limit]
	}
	return kept
}
