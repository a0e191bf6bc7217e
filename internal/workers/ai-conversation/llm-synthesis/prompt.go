// internal/workers/ai-conversation/llm-synthesis/prompt.go
package llmsynthesis

import (
	"fmt"
	"strconv"
	"strings"

	"scholarship-workers/internal/models"
)

const SystemPrompt = "You are a friendly scholarship advisor for international students. " +
	"Answer clearly and concisely. Only mention scholarships that appear in the provided data " +
	"and never invent deadlines, amounts or eligibility rules."

// BuildMatchPrompt asks the model to narrate ranked matches for the user.
func BuildMatchPrompt(message string, profile models.Profile, matches []models.MatchResult, byID map[string]models.Scholarship) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("User message: %s", strings.TrimSpace(message)))

	if summary := profileSummary(profile); summary != "" {
		parts = append(parts, "\nApplicant profile:")
		parts = append(parts, summary)
	}

	parts = append(parts, fmt.Sprintf("\nTop %d matching scholarships:", len(matches)))
	for i, m := range matches {
		s, ok := byID[m.ScholarshipID]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d. %s (%s) - match score %d/100, deadline %s, award %s",
			i+1, s.Name, s.Provider, m.Score, s.Deadline.Format("2006-01-02"), formatAmount(s.Amount, s.Currency)))
		if len(m.Reasons) > 0 {
			parts = append(parts, "   Meets: "+strings.Join(m.Reasons, "; "))
		}
		if len(m.Unmet) > 0 {
			parts = append(parts, "   Missing: "+strings.Join(m.Unmet, "; "))
		}
	}

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Introduce the matches briefly, best match first")
	parts = append(parts, "- Point out missing requirements the applicant could still address")
	parts = append(parts, "- Keep the reply under 200 words")

	return strings.Join(parts, "\n")
}

// BuildQuestionPrompt is used when there are no matches to narrate.
func BuildQuestionPrompt(message string, profile models.Profile) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("User message: %s", strings.TrimSpace(message)))

	if summary := profileSummary(profile); summary != "" {
		parts = append(parts, "\nApplicant profile:")
		parts = append(parts, summary)
	}

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Answer the question directly")
	parts = append(parts, "- If the user is searching and nothing matched, suggest what profile details would help")
	parts = append(parts, "- Keep the reply under 150 words")

	return strings.Join(parts, "\n")
}

func profileSummary(p models.Profile) string {
	var lines []string
	if p.Country != nil {
		lines = append(lines, "- Country: "+*p.Country)
	}
	if p.CurrentGPA != nil {
		lines = append(lines, "- GPA: "+strconv.FormatFloat(*p.CurrentGPA, 'f', -1, 64))
	}
	if p.FieldOfStudy != nil {
		lines = append(lines, "- Field of study: "+*p.FieldOfStudy)
	}
	if p.DegreeLevel != nil {
		lines = append(lines, "- Degree level: "+*p.DegreeLevel)
	}
	if p.Gender != nil {
		lines = append(lines, "- Gender: "+*p.Gender)
	}
	if p.IELTSScore != nil {
		lines = append(lines, "- IELTS: "+strconv.FormatFloat(*p.IELTSScore, 'f', -1, 64))
	}
	if p.TOEFLScore != nil {
		lines = append(lines, "- TOEFL: "+strconv.Itoa(*p.TOEFLScore))
	}
	return strings.Join(lines, "\n")
}

func formatAmount(amount float64, currency string) string {
	if amount <= 0 {
		return "not specified"
	}
	return strings.TrimSpace(strconv.FormatFloat(amount, 'f', -1, 64) + " " + currency)
}
