// internal/workers/ai-conversation/llm-synthesis/backend.go
package llmsynthesis

import (
	"context"
	"fmt"

	"scholarship-workers/internal/common/config"
	httpclient "scholarship-workers/internal/common/http"
	"scholarship-workers/internal/common/logger"
)

// Backend is one completion provider. Complete returns the extracted reply
// text or a coded error from internal/common/errors.
type Backend interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// GenerationParams are shared by every backend.
type GenerationParams struct {
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}

func ParamsFromConfig(cfg config.CompletionConfig) GenerationParams {
	return GenerationParams{
		SystemPrompt: SystemPrompt,
		MaxTokens:    cfg.MaxTokens,
		Temperature:  cfg.Temperature,
	}
}

// NewBackends builds the enabled backends in configured order. A backend
// that cannot be constructed is skipped with an error log.
func NewBackends(ctx context.Context, cfg config.CompletionConfig, log logger.Logger) []Backend {
	params := ParamsFromConfig(cfg)
	// per-attempt contexts bound each call
	client := httpclient.NewClient(0)

	backends := make([]Backend, 0, len(cfg.Backends))
	for _, bc := range cfg.EnabledBackends() {
		b, err := newBackend(ctx, bc, client, params)
		if err != nil {
			log.Error("completion backend disabled", logger.Merge(
				logger.BackendFields(bc.Name, bc.Model),
				map[string]interface{}{"error": err},
			))
			continue
		}
		log.Info("completion backend ready", logger.Merge(
			logger.BackendFields(bc.Name, bc.Model),
			map[string]interface{}{"kind": bc.Kind},
		))
		backends = append(backends, b)
	}
	return backends
}

func newBackend(ctx context.Context, bc config.BackendConfig, client *httpclient.Client, params GenerationParams) (Backend, error) {
	switch bc.Kind {
	case config.BackendKindOpenAI:
		return NewOpenAIBackend(bc, client, params), nil
	case config.BackendKindGemini:
		return NewGeminiBackend(ctx, bc, params)
	default:
		return nil, fmt.Errorf("unknown backend kind %q", bc.Kind)
	}
}
