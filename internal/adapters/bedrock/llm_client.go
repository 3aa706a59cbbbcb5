package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/llm-outreach/internal/core"
	"go.uber.org/zap"
)

const providerName = "Bedrock"

const anthropicVersion = "bedrock-2023-05-31"

// ModelInvoker is the subset of the Bedrock runtime client used here
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient is an implementation of the ModelClient interface using Amazon Bedrock
type BedrockClient struct {
	client  ModelInvoker
	timeout time.Duration
	logger  *zap.Logger
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(client ModelInvoker, timeout time.Duration, logger *zap.Logger) *BedrockClient {
	return &BedrockClient{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      float64            `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type titanRequest struct {
	InputText            string `json:"inputText"`
	TextGenerationConfig struct {
		MaxTokenCount int     `json:"maxTokenCount"`
		Temperature   float64 `json:"temperature"`
	} `json:"textGenerationConfig"`
}

type titanResponse struct {
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

// Complete invokes the model and returns its text output
func (c *BedrockClient) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := buildPayload(req)
	if err != nil {
		return "", &core.ModelCallError{Provider: providerName, Err: fmt.Errorf("failed to marshal request payload: %w", err)}
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(req.Model),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		mcErr := &core.ModelCallError{Provider: providerName, Err: err}
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) {
			mcErr.StatusCode = respErr.HTTPStatusCode()
		}
		return "", mcErr
	}

	text, err := parseResponse(req.Model, resp.Body)
	if err != nil {
		return "", &core.ModelCallError{Provider: providerName, Err: err}
	}

	c.logger.Debug("Bedrock invocation finished",
		zap.String("model", req.Model),
		zap.Int("response_bytes", len(resp.Body)))

	return text, nil
}

func buildPayload(req core.CompletionRequest) ([]byte, error) {
	var system []string
	var user []string
	for _, m := range req.Messages {
		if m.Role == core.RoleSystem {
			system = append(system, m.Content)
		} else {
			user = append(user, m.Content)
		}
	}

	if isAnthropicModel(req.Model) {
		return json.Marshal(anthropicRequest{
			AnthropicVersion: anthropicVersion,
			MaxTokens:        req.MaxTokens,
			System:           strings.Join(system, "\n\n"),
			Messages:         []anthropicMessage{{Role: "user", Content: strings.Join(user, "\n\n")}},
			Temperature:      req.Temperature,
		})
	}

	// Titan takes a single text prompt.
	var titan titanRequest
	titan.InputText = strings.Join(append(system, user...), "\n\n")
	titan.TextGenerationConfig.MaxTokenCount = req.MaxTokens
	titan.TextGenerationConfig.Temperature = req.Temperature
	return json.Marshal(titan)
}

func parseResponse(modelID string, body []byte) (string, error) {
	if isAnthropicModel(modelID) {
		var resp anthropicResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		var sb strings.Builder
		for _, block := range resp.Content {
			if block.Type == "" || block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		if sb.Len() == 0 {
			return "", errors.New("empty response from Claude model")
		}
		return sb.String(), nil
	}

	var resp titanResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", errors.New("empty response from Titan model")
	}
	return resp.Results[0].OutputText, nil
}

// isAnthropicModel checks if the model is an Anthropic Claude model,
// including cross-region inference profiles such as us.anthropic.claude-*
func isAnthropicModel(modelID string) bool {
	return strings.Contains(modelID, "anthropic.claude")
}
