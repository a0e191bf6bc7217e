// cmd/scholarship-assistant/app.go
package main

import (
	"context"
	"time"

	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/database"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/observability"
	llmsynthesis "scholarship-workers/internal/workers/ai-conversation/llm-synthesis"
	scholarshipchat "scholarship-workers/internal/workers/ai-conversation/scholarship-chat"
	queryscholarships "scholarship-workers/internal/workers/data-access/query-scholarships"
	normalizeprofile "scholarship-workers/internal/workers/scholarship/normalize-profile"

	"github.com/redis/go-redis/v9"
)

// app holds the clients and handlers shared by serve and ask. Storage that
// cannot be reached is left nil and the pipeline runs without it.
type app struct {
	cfg   *config.Config
	log   logger.Logger
	obs   *observability.Observability
	pg    *database.PostgresClient
	redis *database.RedisClient
	es    *database.ElasticsearchClient

	normalizer   *normalizeprofile.Handler
	orchestrator *llmsynthesis.Orchestrator
	chat         *scholarshipchat.Handler
}

type connectOptions struct {
	retries      int
	initialDelay time.Duration
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger, opts connectOptions) *app {
	a := &app{
		cfg: cfg,
		log: log,
		obs: observability.New(cfg.App.Name),
	}
	a.connect(ctx, opts)

	matching := queryscholarships.LoadConfig(cfg.Matching)

	var intake normalizeprofile.IntakeStore
	if a.pg != nil {
		var rdb *redis.Client
		if a.redis != nil {
			rdb = a.redis.Client
		}
		intake = queryscholarships.NewIntakeRepository(a.pg.DB, rdb, matching.IntakeCacheTTL, log)
	}
	normalizerCfg := normalizeprofile.LoadConfig()
	normalizerCfg.IntakeTimeout = matching.Timeout
	a.normalizer = normalizeprofile.NewHandler(normalizerCfg, intake, log)

	source, err := queryscholarships.NewCandidateSource(matching, a.pg, a.es)
	if err != nil {
		log.Warn("no candidate source, search requests will rank an empty set", map[string]interface{}{"error": err})
	}

	backends := llmsynthesis.NewBackends(ctx, cfg.Completion, log)
	a.orchestrator = llmsynthesis.NewOrchestrator(backends, llmsynthesis.PolicyFromConfig(cfg.Completion), log)
	if a.orchestrator.TemplateOnly() {
		log.Warn("no completion backend enabled, every reply will use templates", nil)
	}

	a.chat = scholarshipchat.NewHandler(
		scholarshipchat.LoadConfig(cfg),
		a.normalizer,
		source,
		a.orchestrator,
		log,
		scholarshipchat.WithRecorder(a.obs),
	)
	return a
}

func (a *app) connect(ctx context.Context, opts connectOptions) {
	pg, err := database.NewPostgres(a.cfg.Database.Postgres)
	if err == nil {
		err = database.RetryWithBackoff(ctx, pg.Ping, opts.retries, opts.initialDelay)
	}
	if err != nil {
		a.log.Warn("postgres unavailable", map[string]interface{}{"error": err})
		if pg != nil {
			_ = pg.Close()
		}
	} else {
		a.pg = pg
	}

	rdb := database.NewRedis(a.cfg.Database.Redis)
	if err := database.RetryWithBackoff(ctx, rdb.Ping, opts.retries, opts.initialDelay); err != nil {
		a.log.Warn("redis unavailable", map[string]interface{}{"error": err})
		_ = rdb.Close()
	} else {
		a.redis = rdb
	}

	if a.cfg.Matching.CandidateSource == config.CandidateSourceElasticsearch {
		es, err := database.NewElasticsearch(a.cfg.Database.Elasticsearch)
		if err == nil {
			err = database.RetryWithBackoff(ctx, es.Ping, opts.retries, opts.initialDelay)
		}
		if err != nil {
			a.log.Warn("elasticsearch unavailable", map[string]interface{}{"error": err})
		} else {
			a.es = es
		}
	}
}

// pingers lists the connected dependencies for the readiness check.
func (a *app) pingers() []database.Pinger {
	var out []database.Pinger
	if a.pg != nil {
		out = append(out, a.pg)
	}
	if a.redis != nil {
		out = append(out, a.redis)
	}
	if a.es != nil {
		out = append(out, a.es)
	}
	return out
}

func (a *app) close() {
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.obs.Shutdown()
}
