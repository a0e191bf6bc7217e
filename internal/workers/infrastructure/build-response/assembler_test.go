package buildresponse

import (
	"encoding/json"
	"testing"
	"time"

	"scholarship-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatches() []models.MatchResult {
	return []models.MatchResult{
		{ScholarshipID: "s-1", Score: 100, Reasons: []string{"Open to applicants from any country"}},
		{ScholarshipID: "s-2", Score: 85, Reasons: []string{"Degree level matches: Master"}, Unmet: []string{"Minimum GPA 3.0 required"}},
	}
}

func sampleCatalogue() map[string]models.Scholarship {
	return models.IndexByID([]models.Scholarship{
		{
			ID: "s-1", Name: "DAAD EPOS", Provider: "DAAD", Country: "Germany",
			FieldOfStudy: []string{"Engineering"}, DegreeLevel: []string{"Master"},
			Deadline: time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC), Amount: 11208, Currency: "EUR",
		},
		{
			ID: "s-2", Name: "Chevening", Provider: "FCDO", Country: "United Kingdom",
			Deadline: time.Date(2026, 11, 5, 12, 0, 0, 0, time.UTC), Amount: 18000, Currency: "GBP",
		},
	})
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name         string
		isSearch     bool
		matches      []models.MatchResult
		expectedKind Kind
		expectedLen  int
	}{
		{"search with matches", true, sampleMatches(), KindMatches, 2},
		{"search without matches", true, nil, KindText, 0},
		{"not a search", false, sampleMatches(), KindText, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assemble("reply", tt.isSearch, tt.matches)
			assert.Equal(t, "reply", a.Reply)
			assert.Equal(t, tt.expectedKind, a.Kind)
			assert.Len(t, a.Matches, tt.expectedLen)
			assert.NotNil(t, a.Matches)
		})
	}
}

func TestToChatResponse_Matches(t *testing.T) {
	resp := ToChatResponse(Assemble("Here are two options.", true, sampleMatches()), sampleCatalogue())

	assert.Equal(t, models.ResponseTypeMatches, resp.Type)
	require.Len(t, resp.Matches, 2)
	require.NotNil(t, resp.TotalFound)
	assert.Equal(t, 2, *resp.TotalFound)

	first := resp.Matches[0]
	assert.Equal(t, "s-1", first.Scholarship.ID)
	assert.Equal(t, "2027-01-15", first.Scholarship.Deadline)
	assert.Equal(t, 100, first.MatchScore)
	assert.Equal(t, []string{}, first.MissingRequirements)

	second := resp.Matches[1]
	assert.Equal(t, []string{"Minimum GPA 3.0 required"}, second.MissingRequirements)
	assert.Equal(t, []string{}, second.Scholarship.FieldOfStudy)
}

func TestToChatResponse_Text(t *testing.T) {
	resp := ToChatResponse(Assemble("Hello!", false, nil), nil)

	assert.Equal(t, models.ResponseTypeText, resp.Type)
	assert.Nil(t, resp.TotalFound)
	assert.Empty(t, resp.Matches)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"reply":"Hello!","type":"text"}`, string(raw))
}

func TestToChatResponse_UnknownScholarshipsDropped(t *testing.T) {
	matches := []models.MatchResult{{ScholarshipID: "gone", Score: 90}}

	resp := ToChatResponse(Assemble("reply", true, matches), sampleCatalogue())

	assert.Equal(t, models.ResponseTypeText, resp.Type)
	assert.Nil(t, resp.TotalFound)
}

func TestToChatResponse_JSONShape(t *testing.T) {
	resp := ToChatResponse(Assemble("r", true, sampleMatches()[:1]), sampleCatalogue())

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "scholarship_matches", decoded["type"])
	assert.Equal(t, float64(1), decoded["totalFound"])

	match := decoded["matches"].([]interface{})[0].(map[string]interface{})
	assert.Contains(t, match, "matchScore")
	assert.Contains(t, match, "matchReasons")
	assert.Contains(t, match, "missingRequirements")
	scholarship := match["scholarship"].(map[string]interface{})
	for _, key := range []string{"id", "name", "provider", "amount", "currency", "country", "deadline", "fieldOfStudy", "degreeLevel"} {
		assert.Contains(t, scholarship, key)
	}
}
