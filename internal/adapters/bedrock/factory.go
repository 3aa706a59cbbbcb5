package bedrock

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/llm-outreach/internal/config"
	"github.com/mikey/llm-outreach/internal/core"
	"go.uber.org/zap"
)

// Factory creates Bedrock clients
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new Bedrock factory
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new Bedrock client
func (f *Factory) CreateClient() (core.ModelClient, error) {
	bedrockCfg := f.cfg.GetBedrock()

	llmCfg, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(bedrockCfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	f.logger.Info("Creating Bedrock client",
		zap.String("region", bedrockCfg.Region),
		zap.String("model", bedrockCfg.ModelID))

	return NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), llmCfg.Timeout, f.logger), nil
}
