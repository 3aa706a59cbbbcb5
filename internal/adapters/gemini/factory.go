package gemini

import (
	"fmt"

	"github.com/mikey/llm-outreach/internal/config"
	"github.com/mikey/llm-outreach/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of GeminiClient
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for GeminiClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new GeminiClient
func (f *Factory) CreateClient() (core.ModelClient, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	llmCfg, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}

	f.logger.Info("Creating Gemini client", zap.String("model", geminiCfg.ModelName))

	return NewGeminiClient(geminiCfg.APIKey, llmCfg.Timeout, f.logger)
}
