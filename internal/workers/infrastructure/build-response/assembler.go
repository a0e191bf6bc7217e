// internal/workers/infrastructure/build-response/assembler.go
package buildresponse

import (
	"scholarship-workers/internal/models"
)

const deadlineLayout = "2006-01-02"

// Assemble attaches matches to the reply only for a search with results.
func Assemble(reply string, isSearch bool, matches []models.MatchResult) Assembly {
	if isSearch && len(matches) > 0 {
		return Assembly{Reply: reply, Kind: KindMatches, Matches: matches}
	}
	return Assembly{Reply: reply, Kind: KindText, Matches: []models.MatchResult{}}
}

// ToChatResponse renders the outbound payload. Matches whose scholarship is
// not in byID are skipped.
func ToChatResponse(a Assembly, byID map[string]models.Scholarship) models.ChatResponse {
	if a.Kind != KindMatches {
		return models.ChatResponse{Reply: a.Reply, Type: models.ResponseTypeText}
	}

	payloads := make([]models.MatchPayload, 0, len(a.Matches))
	for _, m := range a.Matches {
		s, ok := byID[m.ScholarshipID]
		if !ok {
			continue
		}
		payloads = append(payloads, models.MatchPayload{
			Scholarship:         summarize(s),
			MatchScore:          m.Score,
			MatchReasons:        nonNil(m.Reasons),
			MissingRequirements: nonNil(m.Unmet),
		})
	}

	if len(payloads) == 0 {
		return models.ChatResponse{Reply: a.Reply, Type: models.ResponseTypeText}
	}

	total := len(payloads)
	return models.ChatResponse{
		Reply:      a.Reply,
		Type:       models.ResponseTypeMatches,
		Matches:    payloads,
		TotalFound: &total,
	}
}

func summarize(s models.Scholarship) models.ScholarshipSummary {
	deadline := ""
	if !s.Deadline.IsZero() {
		deadline = s.Deadline.UTC().Format(deadlineLayout)
	}
	return models.ScholarshipSummary{
		ID:           s.ID,
		Name:         s.Name,
		Provider:     s.Provider,
		Amount:       s.Amount,
		Currency:     s.Currency,
		Country:      s.Country,
		Deadline:     deadline,
		FieldOfStudy: nonNil(s.FieldOfStudy),
		DegreeLevel:  nonNil(s.DegreeLevel),
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
