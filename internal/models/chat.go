// internal/models/chat.go
package models

const (
	ResponseTypeMatches = "scholarship_matches"
	ResponseTypeText    = "text"
)

type ChatRequest struct {
	Message string       `json:"message" validate:"required"`
	UserID  string       `json:"userId,omitempty"`
	Context *ChatContext `json:"context,omitempty"`
}

type ChatContext struct {
	FinderData map[string]interface{} `json:"finderData,omitempty"`
}

type ChatResponse struct {
	Reply      string         `json:"reply"`
	Type       string         `json:"type"`
	Matches    []MatchPayload `json:"matches,omitempty"`
	TotalFound *int           `json:"totalFound,omitempty"`
}

type MatchPayload struct {
	Scholarship         ScholarshipSummary `json:"scholarship"`
	MatchScore          int                `json:"matchScore"`
	MatchReasons        []string           `json:"matchReasons"`
	MissingRequirements []string           `json:"missingRequirements"`
}

type ScholarshipSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Provider     string   `json:"provider"`
	Amount       float64  `json:"amount"`
	Currency     string   `json:"currency"`
	Country      string   `json:"country"`
	Deadline     string   `json:"deadline"`
	FieldOfStudy []string `json:"fieldOfStudy"`
	DegreeLevel  []string `json:"degreeLevel"`
}

type ErrorResponse struct {
	Error      string `json:"error"`
	Status     int    `json:"status"`
	Diagnostic string `json:"diagnostic,omitempty"`
}
