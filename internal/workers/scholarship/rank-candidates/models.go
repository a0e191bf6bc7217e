// internal/workers/scholarship/rank-candidates/models.go
package rankcandidates

import "scholarship-workers/internal/models"

type Input struct {
	Profile    *models.Profile      `json:"profile,omitempty"`
	Candidates []models.Scholarship `json:"candidates"`
	MinScore   *int                 `json:"minScore,omitempty"`
	Limit      int                  `json:"limit,omitempty"`
}

type Output struct {
	Matches    []models.MatchResult `json:"matches"`
	TotalFound int                  `json:"totalFound"`
}
