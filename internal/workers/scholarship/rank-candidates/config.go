// internal/workers/scholarship/rank-candidates/config.go
package rankcandidates

import (
	"time"

	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/models"
)

const (
	DefaultMinScore = 50
	DefaultLimit    = 10

	// ranking slower than this is logged
	slowRankThreshold = 500 * time.Millisecond
)

// Options bound the ranked list. A nil MinScore selects DefaultMinScore and
// an explicit zero keeps every candidate. A zero Limit selects DefaultLimit.
type Options struct {
	MinScore *int
	Limit    int
}

func (o Options) withDefaults() Options {
	if o.MinScore == nil {
		o.MinScore = models.IntPtr(DefaultMinScore)
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}

type Config struct {
	Options Options
	Timeout time.Duration
}

func LoadConfig(cfg config.MatchingConfig) *Config {
	return &Config{
		Options: Options{MinScore: models.IntPtr(cfg.MinScore), Limit: cfg.Limit},
		Timeout: 5 * time.Second,
	}
}
