// internal/workers/ai-conversation/parse-user-intent/models.go
package parseuserintent

import "regexp"

type Category string

const (
	CategorySearch      Category = "search"
	CategoryApplication Category = "application"
	CategoryGreeting    Category = "greeting"
	CategoryDefault     Category = "default"
)

// Rule assigns Category to a message matching Pattern.
type Rule struct {
	Pattern  *regexp.Regexp
	Category Category
}

type Output struct {
	Intent   Category `json:"intent"`
	IsSearch bool     `json:"isSearch"`
}
