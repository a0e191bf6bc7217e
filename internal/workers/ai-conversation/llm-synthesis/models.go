// internal/workers/ai-conversation/llm-synthesis/models.go
package llmsynthesis

type Input struct {
	Message string `json:"message"`
	// Prompt overrides the direct-answer prompt built from Message.
	Prompt string `json:"prompt,omitempty"`
}

type Output struct {
	Reply        string          `json:"reply"`
	Provider     string          `json:"provider"`
	FromTemplate bool            `json:"fromTemplate"`
	Attempts     []AttemptRecord `json:"attempts"`
}
