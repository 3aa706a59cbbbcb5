package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mikey/llm-outreach/internal/core"
	"github.com/mikey/llm-outreach/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const providerName = "OpenAI"

// errorExcerptSize bounds the provider error text carried in a ModelCallError
const errorExcerptSize = 500

// OpenAIClient is an implementation of the ModelClient interface for
// OpenAI-compatible chat completion endpoints such as OpenRouter
type OpenAIClient struct {
	client  *openai.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client. An empty baseURL keeps the
// library default.
func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) *OpenAIClient {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(clientCfg),
		timeout: timeout,
		logger:  logger,
	}
}

// Complete sends a chat completion and returns the content of the first choice
func (c *OpenAIClient) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == core.RoleSystem {
			role = openai.ChatMessageRoleSystem
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: wireTemperature(req.Temperature),
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &core.ModelCallError{Provider: providerName, Err: errors.New("response contained no choices")}
	}

	c.logger.Debug("Chat completion finished",
		zap.String("id", resp.ID),
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}

// wireTemperature maps 0 to the smallest positive float32, since the request
// struct omits a zero temperature and the provider would apply its own default.
func wireTemperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &core.ModelCallError{
			Provider:   providerName,
			StatusCode: apiErr.HTTPStatusCode,
			Excerpt:    utils.Excerpt(apiErr.Message, errorExcerptSize),
			Err:        err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &core.ModelCallError{
			Provider:   providerName,
			StatusCode: reqErr.HTTPStatusCode,
			Err:        err,
		}
	}

	return &core.ModelCallError{Provider: providerName, Err: fmt.Errorf("request failed: %w", err)}
}
