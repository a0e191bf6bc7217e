// internal/workers/scholarship/calculate-match-score/config.go
package calculatematchscore

// Criterion weights. They sum to MaxScore.
const (
	WeightCountry = 30
	WeightGPA     = 15
	WeightField   = 15
	WeightDegree  = 10
	WeightGender  = 10
	WeightIELTS   = 10
	WeightTOEFL   = 10

	MaxScore = 100
)
