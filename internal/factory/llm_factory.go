package factory

import (
	"fmt"

	"github.com/mikey/llm-outreach/internal/adapters/bedrock"
	"github.com/mikey/llm-outreach/internal/adapters/gemini"
	"github.com/mikey/llm-outreach/internal/adapters/openai"
	"github.com/mikey/llm-outreach/internal/config"
	"github.com/mikey/llm-outreach/internal/core"
	"github.com/mikey/llm-outreach/internal/metrics"
	"go.uber.org/zap"
)

// LLMFactory creates model clients
type LLMFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewLLMFactory creates a new LLM factory. m may be nil.
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *LLMFactory {
	return &LLMFactory{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// CreateLLMClient creates a new model client based on the configuration
func (f *LLMFactory) CreateLLMClient() (core.ModelClient, error) {
	provider := f.cfg.GetString("llm.provider")

	var client core.ModelClient
	var err error
	switch provider {
	case "openai", "openrouter":
		client, err = openai.NewFactory(f.cfg, f.logger).CreateClient()
	case "gemini":
		client, err = gemini.NewFactory(f.cfg, f.logger).CreateClient()
	case "bedrock":
		client, err = bedrock.NewFactory(f.cfg, f.logger).CreateClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	if f.metrics != nil {
		client = f.metrics.InstrumentModelClient(client, provider)
	}
	return client, nil
}
