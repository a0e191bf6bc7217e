// internal/workers/ai-conversation/llm-synthesis/config.go
package llmsynthesis

import (
	"time"

	"scholarship-workers/internal/common/config"
)

type Config struct {
	Policy Policy
	// Timeout bounds a whole job: every backend, retry and delay.
	Timeout time.Duration
}

func LoadConfig(cfg config.CompletionConfig) *Config {
	return &Config{
		Policy:  PolicyFromConfig(cfg),
		Timeout: 90 * time.Second,
	}
}
