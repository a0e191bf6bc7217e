// internal/workers/ai-conversation/scholarship-chat/config.go
package scholarshipchat

import (
	"time"

	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/models"
	queryscholarships "scholarship-workers/internal/workers/data-access/query-scholarships"
	rankcandidates "scholarship-workers/internal/workers/scholarship/rank-candidates"
)

type Config struct {
	Ranking      rankcandidates.Options
	CandidateCap int
	FetchTimeout time.Duration
	Timeout      time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Ranking: rankcandidates.Options{
			MinScore: models.IntPtr(cfg.Matching.MinScore),
			Limit:    cfg.Matching.Limit,
		},
		CandidateCap: cfg.Matching.CandidateCap,
		FetchTimeout: queryscholarships.LoadConfig(cfg.Matching).Timeout,
		Timeout:      config.GetDuration(cfg.Server.RequestTimeoutMs),
	}
	if c.CandidateCap <= 0 {
		c.CandidateCap = queryscholarships.DefaultCandidateCap
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}
