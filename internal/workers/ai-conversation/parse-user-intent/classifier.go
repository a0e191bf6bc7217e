// internal/workers/ai-conversation/parse-user-intent/classifier.go
package parseuserintent

import (
	"regexp"
	"strings"
)

const awardNoun = `(?:scholarships?|funding|grants?|bursar(?:y|ies)|fellowships?|financial aid|sponsorships?)`

// Rules are evaluated in order and the first match wins.
var Rules = []Rule{
	{regexp.MustCompile(`(?i)\b(?:find|search|searching|looking for|look for|recommend|suggest|show me|list|match|eligible|qualify)\b.*\b` + awardNoun + `\b`), CategorySearch},
	{regexp.MustCompile(`(?i)\b(?:scholarships|grants|bursaries|fellowships)\s+(?:for|in|to|available)\b`), CategorySearch},
	{regexp.MustCompile(`(?i)\b(?:any|which|what)\s+` + awardNoun + `\b`), CategorySearch},
	{regexp.MustCompile(`(?i)\b` + awardNoun + `\b.*\b(?:for me|i qualify|i can get|can i get|available)\b`), CategorySearch},

	{regexp.MustCompile(`(?i)\b(?:apply|applying|application|essay|personal statement|motivation letter|cover letter|recommendation letter|reference letter|requirements?|documents?|interview|cv|resume|transcripts?)\b`), CategoryApplication},

	{regexp.MustCompile(`(?i)^\s*(?:hi|hello|hey|hiya|good (?:morning|afternoon|evening)|greetings)\b`), CategoryGreeting},
	{regexp.MustCompile(`(?i)\b(?:help|what can you do|how does this work|who are you)\b`), CategoryGreeting},
}

// Classify returns the category of the first matching rule, or CategoryDefault.
func Classify(message string) Category {
	return ClassifyWith(Rules, message)
}

func ClassifyWith(rules []Rule, message string) Category {
	message = strings.TrimSpace(message)
	if message == "" {
		return CategoryDefault
	}
	for _, r := range rules {
		if r.Pattern.MatchString(message) {
			return r.Category
		}
	}
	return CategoryDefault
}

// IsSearch reports whether the message asks for scholarship matches.
func IsSearch(message string) bool {
	return Classify(message) == CategorySearch
}

// Analyze is the classification carried in job variables.
func Analyze(message string) Output {
	intent := Classify(message)
	return Output{Intent: intent, IsSearch: intent == CategorySearch}
}
