// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Camunda    CamundaConfig           `mapstructure:"camunda"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Workers    map[string]WorkerConfig `mapstructure:"workers" validate:"dive"`
	Completion CompletionConfig        `mapstructure:"completion"`
	Matching   MatchingConfig          `mapstructure:"matching"`
	Server     ServerConfig            `mapstructure:"server"`
	Logging    LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment" validate:"omitempty,oneof=development staging production test"`
}

// IsProduction hides diagnostic fields from API error payloads.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address" validate:"required_if=Enabled true"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active" validate:"min=0"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // for error handling
}

const (
	BackendKindOpenAI = "openai"
	BackendKindGemini = "gemini"
)

// BackendConfig describes one completion backend. Order in the list is the
// fallback order.
type BackendConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Kind    string `mapstructure:"kind" validate:"required,oneof=openai gemini"`
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key" validate:"required_if=Enabled true"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

type CompletionConfig struct {
	Backends         []BackendConfig `mapstructure:"backends" validate:"dive"`
	MaxAttempts      int             `mapstructure:"max_attempts" validate:"min=1,max=5"`
	InitialDelayMs   int             `mapstructure:"initial_delay_ms" validate:"min=0"`
	MaxDelayMs       int             `mapstructure:"max_delay_ms" validate:"gtefield=InitialDelayMs,max=5000"`
	AttemptTimeoutMs int             `mapstructure:"attempt_timeout_ms" validate:"min=1"`
	MaxTokens        int             `mapstructure:"max_tokens"`
	Temperature      float64         `mapstructure:"temperature" validate:"min=0,max=2"`
}

// EnabledBackends returns backends in fallback order, skipping disabled ones.
func (c CompletionConfig) EnabledBackends() []BackendConfig {
	out := make([]BackendConfig, 0, len(c.Backends))
	for _, b := range c.Backends {
		if b.Enabled {
			out = append(out, b)
		}
	}
	return out
}

const (
	CandidateSourcePostgres      = "postgres"
	CandidateSourceElasticsearch = "elasticsearch"
)

type MatchingConfig struct {
	MinScore        int    `mapstructure:"min_score" validate:"min=0,max=100"`
	Limit           int    `mapstructure:"limit" validate:"min=1"`
	CandidateCap    int    `mapstructure:"candidate_cap" validate:"min=1,max=1000"`
	CandidateSource string `mapstructure:"candidate_source" validate:"oneof=postgres elasticsearch"`
	IntakeCacheTTLs int    `mapstructure:"intake_cache_ttl_s" validate:"min=0"`
	FetchTimeoutMs  int    `mapstructure:"fetch_timeout_ms" validate:"min=0"`
}

type ServerConfig struct {
	Address          string          `mapstructure:"address"`
	RequestTimeoutMs int             `mapstructure:"request_timeout_ms" validate:"min=1"`
	RateLimit        RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Requests int  `mapstructure:"requests" validate:"required_if=Enabled true"`
	WindowS  int  `mapstructure:"window_s" validate:"required_if=Enabled true"`
}

func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowS) * time.Second
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	Output string `mapstructure:"output"`
}
