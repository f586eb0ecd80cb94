// Package match scores how close a user's skills are to each career profile.
package match

import (
	"github.com/spigell/career-recommender/internal/features"
	"github.com/spigell/career-recommender/internal/profiles"
)

const (
	maxScore = 100.0
	// penalty is subtracted per point of absolute skill difference.
	penalty = 5.0
)

type Result struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Score returns 100 - 5*Σ|ideal-user| clamped to [0, 100].
func Score(user, ideal features.Skills) float64 {
	u, i := user.Values(), ideal.Values()

	diff := 0
	for k := range u {
		d := i[k] - u[k]
		if d < 0 {
			d = -d
		}
		diff += d
	}

	return min(maxScore, max(0, maxScore-penalty*float64(diff)))
}

// ScoreAll scores user against every profile in repository order.
func ScoreAll(user features.Skills, repo *profiles.Repository) []Result {
	all := repo.All()
	out := make([]Result, 0, len(all))
	for _, p := range all {
		out = append(out, Result{Label: p.Label, Score: Score(user, p.Skills)})
	}
	return out
}

// Best returns the highest scoring result. The first one wins on ties.
func Best(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Score > best.Score {
			best = r
		}
	}
	return best, true
}
