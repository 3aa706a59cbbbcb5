package openai

import (
	"fmt"

	"github.com/mikey/llm-outreach/internal/config"
	"github.com/mikey/llm-outreach/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of OpenAIClient
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for OpenAIClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new OpenAIClient
func (f *Factory) CreateClient() (core.ModelClient, error) {
	openaiCfg := f.cfg.GetOpenAI()
	if openaiCfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	llmCfg, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}

	f.logger.Info("Creating OpenAI-compatible client",
		zap.String("base_url", openaiCfg.BaseURL),
		zap.String("model", openaiCfg.ModelName))

	return NewOpenAIClient(openaiCfg.APIKey, openaiCfg.BaseURL, llmCfg.Timeout, f.logger), nil
}
