// internal/workers/data-access/query-scholarships/source.go
package queryscholarships

import (
	"context"
	"fmt"
	"time"

	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/database"
	"scholarship-workers/internal/models"
)

// CandidateSource lists scholarships still open at now, earliest deadline
// first, at most limit of them.
type CandidateSource interface {
	Name() string
	FetchOpen(ctx context.Context, now time.Time, limit int) ([]models.Scholarship, error)
}

// NewCandidateSource picks the backing store named by cfg.Source.
func NewCandidateSource(cfg *Config, pg *database.PostgresClient, es *database.ElasticsearchClient) (CandidateSource, error) {
	switch cfg.Source {
	case config.CandidateSourceElasticsearch:
		if es == nil {
			return nil, fmt.Errorf("candidate source %q has no client", cfg.Source)
		}
		return NewElasticsearchSource(es.Client, es.Index), nil
	case config.CandidateSourcePostgres, "":
		if pg == nil {
			return nil, fmt.Errorf("candidate source %q has no client", config.CandidateSourcePostgres)
		}
		return NewPostgresSource(pg.DB), nil
	default:
		return nil, fmt.Errorf("unknown candidate source %q", cfg.Source)
	}
}
