// internal/workers/scholarship/calculate-match-score/scorer.go
package calculatematchscore

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"scholarship-workers/internal/models"
)

type criterion struct {
	weight int
	check  func(p models.Profile, s models.Scholarship) (ok bool, message string)
}

// rubric is evaluated in order; reasons and unmet keep this order.
var rubric = []criterion{
	{WeightCountry, checkCountry},
	{WeightGPA, checkGPA},
	{WeightField, checkField},
	{WeightDegree, checkDegree},
	{WeightGender, checkGender},
	{WeightIELTS, checkIELTS},
	{WeightTOEFL, checkTOEFL},
}

// Score rates how well profile fits scholarship. A profile value that is
// missing counts as unmet whenever the scholarship imposes that requirement.
func Score(profile models.Profile, scholarship models.Scholarship) models.MatchResult {
	result := models.MatchResult{
		ScholarshipID: scholarship.ID,
		Reasons:       []string{},
		Unmet:         []string{},
	}

	score := 0
	for _, c := range rubric {
		ok, message := c.check(profile, scholarship)
		if ok {
			score += c.weight
			result.Reasons = append(result.Reasons, message)
		} else {
			result.Unmet = append(result.Unmet, message)
		}
	}

	result.Score = clamp(score, 0, MaxScore)
	return result
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func checkCountry(p models.Profile, s models.Scholarship) (bool, string) {
	targets := nonEmpty(s.TargetCountries)
	if len(targets) == 0 {
		return true, "Open to applicants from any country"
	}
	if p.Country != nil && containsFold(targets, *p.Country) {
		return true, fmt.Sprintf("Open to applicants from %s", strings.TrimSpace(*p.Country))
	}
	return false, fmt.Sprintf("Open only to applicants from %s", strings.Join(targets, ", "))
}

func checkGPA(p models.Profile, s models.Scholarship) (bool, string) {
	if s.MinGPA == nil {
		return true, "No minimum GPA requirement"
	}
	if p.CurrentGPA != nil && *p.CurrentGPA >= *s.MinGPA {
		return true, fmt.Sprintf("GPA %s meets the %s minimum", formatDecimal(*p.CurrentGPA), formatDecimal(*s.MinGPA))
	}
	return false, fmt.Sprintf("Minimum GPA %s required", formatDecimal(*s.MinGPA))
}

func checkField(p models.Profile, s models.Scholarship) (bool, string) {
	fields := nonEmpty(s.FieldOfStudy)
	if len(fields) == 0 {
		return true, "Open to all fields of study"
	}
	if p.FieldOfStudy != nil && containsFold(fields, *p.FieldOfStudy) {
		return true, fmt.Sprintf("Field of study matches: %s", strings.TrimSpace(*p.FieldOfStudy))
	}
	return false, fmt.Sprintf("Field of study must be one of: %s", strings.Join(fields, ", "))
}

func checkDegree(p models.Profile, s models.Scholarship) (bool, string) {
	levels := nonEmpty(s.DegreeLevel)
	if len(levels) == 0 {
		return true, "Open to all degree levels"
	}
	if p.DegreeLevel != nil && containsFold(levels, *p.DegreeLevel) {
		return true, fmt.Sprintf("Degree level matches: %s", strings.TrimSpace(*p.DegreeLevel))
	}
	return false, fmt.Sprintf("Degree level must be one of: %s", strings.Join(levels, ", "))
}

func checkGender(p models.Profile, s models.Scholarship) (bool, string) {
	if !s.ForWomen {
		return true, "No gender restriction"
	}
	if p.Gender != nil && strings.EqualFold(strings.TrimSpace(*p.Gender), "female") {
		return true, "Eligible for this scholarship for women"
	}
	return false, "Open to female applicants only"
}

func checkIELTS(p models.Profile, s models.Scholarship) (bool, string) {
	if !s.RequiresIELTS {
		return true, "No IELTS requirement"
	}
	if p.IELTSScore == nil {
		return false, ieltsUnmet(s)
	}
	if s.MinIELTS == nil {
		return true, fmt.Sprintf("IELTS score %s provided", formatDecimal(*p.IELTSScore))
	}
	if *p.IELTSScore >= *s.MinIELTS {
		return true, fmt.Sprintf("IELTS %s meets the %s minimum", formatDecimal(*p.IELTSScore), formatDecimal(*s.MinIELTS))
	}
	return false, ieltsUnmet(s)
}

func ieltsUnmet(s models.Scholarship) string {
	if s.MinIELTS == nil {
		return "IELTS score required"
	}
	return fmt.Sprintf("IELTS score of at least %s required", formatDecimal(*s.MinIELTS))
}

func checkTOEFL(p models.Profile, s models.Scholarship) (bool, string) {
	if !s.RequiresTOEFL {
		return true, "No TOEFL requirement"
	}
	if p.TOEFLScore == nil {
		return false, toeflUnmet(s)
	}
	if s.MinTOEFL == nil {
		return true, fmt.Sprintf("TOEFL score %d provided", *p.TOEFLScore)
	}
	if *p.TOEFLScore >= *s.MinTOEFL {
		return true, fmt.Sprintf("TOEFL %d meets the %d minimum", *p.TOEFLScore, *s.MinTOEFL)
	}
	return false, toeflUnmet(s)
}

func toeflUnmet(s models.Scholarship) string {
	if s.MinTOEFL == nil {
		return "TOEFL score required"
	}
	return fmt.Sprintf("TOEFL score of at least %d required", *s.MinTOEFL)
}

func containsFold(set []string, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, item := range set {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}

// nonEmpty trims the set and drops blank entries, so [""] is unrestricted.
func nonEmpty(set []string) []string {
	out := make([]string, 0, len(set))
	for _, item := range set {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// formatDecimal keeps one decimal place for whole numbers: 3 -> "3.0", 3.25 -> "3.25".
func formatDecimal(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
