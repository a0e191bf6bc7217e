// internal/workers/data-access/query-scholarships/config.go
package queryscholarships

import (
	"time"

	"scholarship-workers/internal/common/config"
)

const (
	DefaultCandidateCap = 100
	DefaultFetchTimeout = 10 * time.Second
	intakeKeyPrefix     = "intake:profile:"
)

type Config struct {
	Source         string
	CandidateCap   int
	IntakeCacheTTL time.Duration
	// Timeout bounds one candidate fetch or intake lookup.
	Timeout time.Duration
}

func LoadConfig(cfg config.MatchingConfig) *Config {
	c := &Config{
		Source:         cfg.CandidateSource,
		CandidateCap:   cfg.CandidateCap,
		IntakeCacheTTL: time.Duration(cfg.IntakeCacheTTLs) * time.Second,
		Timeout:        config.GetDuration(cfg.FetchTimeoutMs),
	}
	if c.CandidateCap <= 0 {
		c.CandidateCap = DefaultCandidateCap
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultFetchTimeout
	}
	return c
}

func intakeCacheKey(userID string) string {
	return intakeKeyPrefix + userID
}
