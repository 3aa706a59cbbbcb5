package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/llm-outreach/internal/core"
	"github.com/mikey/llm-outreach/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const providerName = "Gemini"

const errorExcerptSize = 500

// GeminiClient is an implementation of the ModelClient interface using Google Gemini
type GeminiClient struct {
	client  *genai.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(apiKey string, timeout time.Duration, logger *zap.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Complete generates content for the prompt and returns the text of the first candidate
func (c *GeminiClient) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// Sampling settings live on the model handle, so every call gets its own.
	model := c.client.GenerativeModel(req.Model)
	model.SetTemperature(float32(req.Temperature))
	model.SetMaxOutputTokens(int32(req.MaxTokens))

	var system []string
	var parts []genai.Part
	for _, m := range req.Messages {
		if m.Role == core.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		parts = append(parts, genai.Text(m.Content))
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(strings.Join(system, "\n\n"))},
		}
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", classifyError(err)
	}

	text, err := firstCandidateText(resp)
	if err != nil {
		return "", &core.ModelCallError{Provider: providerName, Err: err}
	}

	if resp.UsageMetadata != nil {
		c.logger.Debug("Gemini generation finished",
			zap.Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
			zap.Int32("completion_tokens", resp.UsageMetadata.CandidatesTokenCount))
	}

	return text, nil
}

func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("response contained no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("candidate has no content (finish reason %s)", candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func classifyError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &core.ModelCallError{
			Provider:   providerName,
			StatusCode: apiErr.Code,
			Excerpt:    utils.Excerpt(apiErr.Message, errorExcerptSize),
			Err:        err,
		}
	}
	return &core.ModelCallError{Provider: providerName, Err: err}
}
