// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// Load reads configs/config.yaml (optional), merges config.<APP_ENVIRONMENT>,
// applies environment overrides and validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return build(v)
}

// LoadFromFile reads a single config file, used by the CLI --config flag.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// setDefaults registers every scalar key so AutomaticEnv can override it
// even when no config file is present.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "scholarship-assistant")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("camunda.enabled", false)
	v.SetDefault("camunda.broker_address", "")
	v.SetDefault("camunda.max_jobs_active", 10)
	v.SetDefault("camunda.timeout", 30000)
	v.SetDefault("camunda.request_timeout", 30000)

	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "scholarships")
	v.SetDefault("database.postgres.user", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.max_connections", 25)
	v.SetDefault("database.postgres.max_idle", 5)
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.elasticsearch.addresses", []string{})
	v.SetDefault("database.elasticsearch.username", "")
	v.SetDefault("database.elasticsearch.password", "")
	v.SetDefault("database.elasticsearch.index", "scholarships")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("completion.max_attempts", 5)
	v.SetDefault("completion.initial_delay_ms", 500)
	v.SetDefault("completion.max_delay_ms", 5000)
	v.SetDefault("completion.attempt_timeout_ms", 15000)
	v.SetDefault("completion.max_tokens", 800)
	v.SetDefault("completion.temperature", 0.4)

	v.SetDefault("matching.min_score", 50)
	v.SetDefault("matching.limit", 10)
	v.SetDefault("matching.candidate_cap", 100)
	v.SetDefault("matching.candidate_source", CandidateSourcePostgres)
	v.SetDefault("matching.intake_cache_ttl_s", 600)
	v.SetDefault("matching.fetch_timeout_ms", 10000)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.request_timeout_ms", 60000)
	v.SetDefault("server.rate_limit.enabled", false)
	v.SetDefault("server.rate_limit.requests", 30)
	v.SetDefault("server.rate_limit.window_s", 60)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Workers == nil {
		cfg.Workers = make(map[string]WorkerConfig)
	}
	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}

	// primary then secondary when the file lists no backends
	if len(cfg.Completion.Backends) == 0 {
		cfg.Completion.Backends = []BackendConfig{
			{Name: "primary", Kind: BackendKindOpenAI, Model: "gpt-4o-mini", BaseURL: "https://api.openai.com"},
			{Name: "secondary", Kind: BackendKindGemini, Model: "gemini-2.5-flash"},
		}
	}
	for i, b := range cfg.Completion.Backends {
		if b.Model == "" {
			switch b.Kind {
			case BackendKindOpenAI:
				b.Model = "gpt-4o-mini"
			case BackendKindGemini:
				b.Model = "gemini-2.5-flash"
			}
		}
		if b.Kind == BackendKindOpenAI && b.BaseURL == "" {
			b.BaseURL = "https://api.openai.com"
		}
		cfg.Completion.Backends[i] = b
	}
}

// overrideEmptyConfig fills secrets from well-known variables. A backend that
// receives its key from the environment is enabled.
func overrideEmptyConfig(cfg *Config) {
	for i, b := range cfg.Completion.Backends {
		// list entries are not reached by expandEnvVars
		if strings.Contains(b.APIKey, "$") {
			b.APIKey = os.ExpandEnv(b.APIKey)
			b.Enabled = b.Enabled || b.APIKey != ""
			cfg.Completion.Backends[i] = b
		}
		if b.APIKey != "" {
			continue
		}
		var envKey string
		switch b.Kind {
		case BackendKindOpenAI:
			envKey = "OPENAI_API_KEY"
		case BackendKindGemini:
			envKey = "GEMINI_API_KEY"
		}
		if val := os.Getenv(envKey); val != "" {
			b.APIKey = val
			b.Enabled = true
		}
		cfg.Completion.Backends[i] = b
	}

	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

func validateConfig(cfg *Config) error {
	if err := validatorInstance().Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("%s failed %q validation", first.Namespace(), first.Tag())
		}
		return err
	}

	if cfg.Matching.CandidateSource == CandidateSourceElasticsearch && len(cfg.Database.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("database.elasticsearch.addresses is required when matching.candidate_source is elasticsearch")
	}

	seen := make(map[string]struct{}, len(cfg.Completion.Backends))
	for _, b := range cfg.Completion.Backends {
		if _, dup := seen[b.Name]; dup {
			return fmt.Errorf("completion.backends: duplicate backend name %q", b.Name)
		}
		seen[b.Name] = struct{}{}
	}
	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
