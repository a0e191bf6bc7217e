// internal/workers/infrastructure/build-response/models.go
package buildresponse

import "scholarship-workers/internal/models"

type Kind string

const (
	KindMatches Kind = "matches"
	KindText    Kind = "text"
)

// Assembly is the reply plus the matches that accompany it.
type Assembly struct {
	Reply   string               `json:"reply"`
	Kind    Kind                 `json:"kind"`
	Matches []models.MatchResult `json:"matches"`
}
