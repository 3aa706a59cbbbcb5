package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/llm-outreach/internal/config"
	"github.com/mikey/llm-outreach/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GenerationService is the core service for drafting outreach emails
type GenerationService struct {
	llmClient   ModelClient
	logger      *zap.Logger
	model       string
	defaults    config.GenerationConfig
	concurrency int
}

// NewGenerationService creates a new generation service. The configured
// defaults stand in for absent request fields, so they are held to the same
// bounds as the request.
func NewGenerationService(
	llmClient ModelClient,
	logger *zap.Logger,
	llmCfg config.LLMConfig,
	genCfg config.GenerationConfig,
) (*GenerationService, error) {
	if err := validateDefaults(genCfg); err != nil {
		return nil, err
	}

	concurrency := genCfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &GenerationService{
		llmClient:   llmClient,
		logger:      logger,
		model:       llmCfg.Model,
		defaults:    genCfg,
		concurrency: concurrency,
	}, nil
}

func validateDefaults(cfg config.GenerationConfig) error {
	if cfg.Temperature < MinTemperature || cfg.Temperature > MaxTemperature {
		return fmt.Errorf("invalid generation.temperature %v: must be between %.1f and %.1f", cfg.Temperature, MinTemperature, MaxTemperature)
	}
	if cfg.Variants < MinVariants || cfg.Variants > MaxVariants {
		return fmt.Errorf("invalid generation.variants %d: must be between %d and %d", cfg.Variants, MinVariants, MaxVariants)
	}
	if cfg.MaxTokens < 1 {
		return fmt.Errorf("invalid generation.max_tokens %d: must be positive", cfg.MaxTokens)
	}
	return nil
}

// Generate drafts one variant per temperature of the spread. All variants
// succeed or the whole request fails with a *VariantError naming the first
// failing index; partial results are discarded.
func (s *GenerationService) Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tone := req.Tone
	if tone == "" {
		tone = s.defaults.Tone
	}
	temperature := s.defaults.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := s.defaults.MaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	count := s.defaults.Variants
	if req.Variants != nil {
		count = *req.Variants
	}

	messages := BuildPrompt(req.Lead, tone)
	temps := TemperatureSpread(temperature, count)

	s.logger.Info("Generating email variants",
		zap.String("model", s.model),
		zap.Int("variants", len(temps)),
		zap.Float64s("temperatures", temps),
		zap.Int("concurrency", s.concurrency))

	start := time.Now()
	results := make([]*Variant, len(temps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, temp := range temps {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// A previous variant may have failed while this one waited for a slot.
			if gctx.Err() != nil {
				return nil
			}
			variant, err := s.generateVariant(gctx, i, CompletionRequest{
				Messages:    messages,
				Model:       s.model,
				Temperature: temp,
				MaxTokens:   maxTokens,
			})
			if err != nil {
				return err
			}
			results[i] = variant
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collected := make([]*Variant, 0, len(results))
	for _, v := range results {
		if v != nil {
			collected = append(collected, v)
		}
	}
	if len(collected) == 0 {
		return nil, ErrNoVariants
	}

	s.logger.Info("Generated email variants",
		zap.Int("variants", len(collected)),
		zap.Duration("duration", time.Since(start)))

	return &GenerationResult{Variants: collected}, nil
}

func (s *GenerationService) generateVariant(ctx context.Context, index int, req CompletionRequest) (*Variant, error) {
	s.logger.Info("Calling model for variant",
		zap.Int("variant", index+1),
		zap.Float64("temperature", req.Temperature))

	raw, err := s.llmClient.Complete(ctx, req)
	if err != nil {
		// Preserve the model-call classification when the cause is a bare context error.
		if !errors.Is(err, ErrModelCall) {
			err = &ModelCallError{Provider: "model", Err: err}
		}
		s.logger.Error("Model call failed",
			zap.Int("variant", index+1),
			zap.Error(err))
		return nil, &VariantError{Index: index, Stage: StageModel, Err: err}
	}

	s.logger.Debug("Raw model response",
		zap.Int("variant", index+1),
		zap.String("raw", raw))

	variant, err := Normalize(raw)
	if err != nil {
		s.logger.Error("Failed to normalize model output",
			zap.Int("variant", index+1),
			zap.Error(err))
		return nil, &VariantError{
			Index:   index,
			Stage:   StageNormalize,
			Excerpt: utils.Excerpt(raw, s.defaults.ExcerptSize),
			Err:     err,
		}
	}

	return variant, nil
}
