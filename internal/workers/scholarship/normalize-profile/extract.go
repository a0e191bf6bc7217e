// internal/workers/scholarship/normalize-profile/extract.go
package normalizeprofile

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"scholarship-workers/internal/models"

	"github.com/mitchellh/mapstructure"
)

// finderFields receives finderData through weak decoding, so numbers and
// numeric strings both land here as strings.
type finderFields struct {
	Country      string `mapstructure:"country"`
	Nationality  string `mapstructure:"nationality"`
	CurrentGPA   string `mapstructure:"currentGPA"`
	GPA          string `mapstructure:"gpa"`
	FieldOfStudy string `mapstructure:"fieldOfStudy"`
	Field        string `mapstructure:"field"`
	DegreeLevel  string `mapstructure:"degreeLevel"`
	Degree       string `mapstructure:"degree"`
	Gender       string `mapstructure:"gender"`
	IELTSScore   string `mapstructure:"ieltsScore"`
	IELTS        string `mapstructure:"ielts"`
	TOEFLScore   string `mapstructure:"toeflScore"`
	TOEFL        string `mapstructure:"toefl"`
}

// FromFinderData builds a partial profile from the finder form. Unknown keys
// are ignored and values that fail to decode are skipped.
func FromFinderData(data map[string]interface{}) models.Profile {
	if len(data) == 0 {
		return models.Profile{}
	}

	var f finderFields
	// a value of the wrong shape leaves its field empty; the rest still decode
	_ = mapstructure.WeakDecode(data, &f)

	return models.Profile{
		Country:      cleanString(firstNonBlank(f.Country, f.Nationality)),
		CurrentGPA:   parseGPA(firstNonBlank(f.CurrentGPA, f.GPA)),
		FieldOfStudy: cleanString(firstNonBlank(f.FieldOfStudy, f.Field)),
		DegreeLevel:  cleanString(firstNonBlank(f.DegreeLevel, f.Degree)),
		Gender:       cleanString(f.Gender),
		IELTSScore:   parseIELTS(firstNonBlank(f.IELTSScore, f.IELTS)),
		TOEFLScore:   parseTOEFL(firstNonBlank(f.TOEFLScore, f.TOEFL)),
	}
}

// FromIntake maps a stored intake record onto the profile fields.
func FromIntake(record *models.IntakeRecord) models.Profile {
	if record == nil {
		return models.Profile{}
	}

	p := models.Profile{
		Country:      cleanString(record.Nationality),
		FieldOfStudy: cleanString(record.IntendedField),
		DegreeLevel:  cleanString(record.IntendedDegree),
		Gender:       cleanString(record.Gender),
	}
	if record.GPA != nil && validGPA(*record.GPA) {
		p.CurrentGPA = models.Float64Ptr(*record.GPA)
	}
	if record.IELTS != nil && validIELTS(*record.IELTS) {
		p.IELTSScore = models.Float64Ptr(*record.IELTS)
	}
	if record.TOEFL != nil && validTOEFL(*record.TOEFL) {
		p.TOEFLScore = models.IntPtr(*record.TOEFL)
	}
	return p
}

type numberRule struct {
	pattern *regexp.Regexp
}

type keywordRule struct {
	pattern *regexp.Regexp
	value   string
}

var (
	gpaRules = []numberRule{
		{regexp.MustCompile(`(?i)\bgpa\s*(?:of|is|:|=)?\s*(\d{1,2}(?:\.\d{1,2})?)\b`)},
		{regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d{1,2})?)\s*(?:/\s*\d(?:\.\d)?\s*)?(?:cumulative\s+)?gpa\b`)},
	}

	ieltsRules = []numberRule{
		{regexp.MustCompile(`(?i)\bielts\s*(?:score\s*)?(?:of|is|:|=)?\s*(\d(?:\.\d)?)\b`)},
		{regexp.MustCompile(`(?i)\b(\d(?:\.\d)?)\s*(?:in\s+|on\s+)?(?:the\s+)?ielts\b`)},
	}

	toeflRules = []numberRule{
		{regexp.MustCompile(`(?i)\btoefl\s*(?:score\s*)?(?:of|is|:|=)?\s*(\d{2,3})\b`)},
		{regexp.MustCompile(`(?i)\b(\d{2,3})\s*(?:in\s+|on\s+)?(?:the\s+)?toefl\b`)},
	}

	// first match wins, so the most advanced level is checked first
	degreeRules = []keywordRule{
		{regexp.MustCompile(`(?i)\b(?:ph\.?\s?d|doctoral|doctorate)\b`), DegreePhD},
		{regexp.MustCompile(`(?i)\b(?:master'?s?|msc|m\.sc|mba|postgraduate|graduate school)\b`), DegreeMaster},
		{regexp.MustCompile(`(?i)\b(?:bachelor'?s?|bsc|b\.sc|undergraduate|undergrad)\b`), DegreeBachelor},
	}

	genderRules = []keywordRule{
		{regexp.MustCompile(`(?i)\b(?:female|woman|women|girl|lady)\b`), "female"},
		{regexp.MustCompile(`(?i)\b(?:male|man|boy)\b`), "male"},
	}

	// each rule captures up to three words that are then looked up as a phrase
	countryRules = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:from|citizen of|national of)\s+((?:[a-z']+)(?:\s+[a-z']+){0,2})`),
		regexp.MustCompile(`(?i)\b(?:i am|i'm|im)\s+(?:an?\s+)?((?:[a-z']+)(?:\s+[a-z']+){0,1})`),
		regexp.MustCompile(`(?i)\bstudy\s+in\s+((?:[a-z']+)(?:\s+[a-z']+){0,2})`),
		regexp.MustCompile(`(?i)\bin\s+((?:[a-z']+)(?:\s+[a-z']+){0,2})`),
	}

	fieldRules = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:studying|study|studies)\s+((?:[a-z]+)(?:\s+[a-z]+){0,2})`),
		regexp.MustCompile(`(?i)\b(?:major(?:ing)?|degree|master'?s?|bachelor'?s?|phd|msc|bsc)\s+in\s+((?:[a-z]+)(?:\s+[a-z]+){0,2})`),
		regexp.MustCompile(`(?i)\bfield\s+(?:of\s+study\s+)?(?:is\s+)?((?:[a-z]+)(?:\s+[a-z]+){0,2})`),
	}
)

// FromMessage applies the free-text heuristics to the user message.
func FromMessage(text string) models.Profile {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Profile{}
	}

	p := models.Profile{
		CurrentGPA:   parseGPA(firstNumber(gpaRules, text)),
		IELTSScore:   parseIELTS(firstNumber(ieltsRules, text)),
		TOEFLScore:   parseTOEFL(firstNumber(toeflRules, text)),
		DegreeLevel:  firstKeyword(degreeRules, text),
		Gender:       firstKeyword(genderRules, text),
		Country:      firstPhrase(countryRules, knownCountries, text),
		FieldOfStudy: firstPhrase(fieldRules, knownFields, text),
	}
	return p
}

func firstNumber(rules []numberRule, text string) string {
	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func firstKeyword(rules []keywordRule, text string) *string {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return models.StringPtr(r.value)
		}
	}
	return nil
}

// firstPhrase tries each rule in order and, for every match, the longest
// leading word run that names a known entry.
func firstPhrase(rules []*regexp.Regexp, known map[string]string, text string) *string {
	for _, r := range rules {
		for _, m := range r.FindAllStringSubmatch(text, -1) {
			words := strings.Fields(strings.ToLower(m[1]))
			for n := len(words); n > 0; n-- {
				phrase := strings.Trim(strings.Join(words[:n], " "), "'")
				if canonical, ok := known[phrase]; ok {
					return models.StringPtr(canonical)
				}
			}
		}
	}
	return nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func cleanString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseGPA(s string) *float64 {
	if v, ok := parseFloat(s); ok && validGPA(v) {
		return &v
	}
	return nil
}

func parseIELTS(s string) *float64 {
	if v, ok := parseFloat(s); ok && validIELTS(v) {
		return &v
	}
	return nil
}

func parseTOEFL(s string) *int {
	v, ok := parseFloat(s)
	if !ok {
		return nil
	}
	score := int(math.Round(v))
	if !validTOEFL(score) {
		return nil
	}
	return &score
}

func validGPA(v float64) bool   { return v > 0 && v <= 10 }
func validIELTS(v float64) bool { return v > 0 && v <= 9 }
func validTOEFL(v int) bool     { return v > 0 && v <= 120 }
