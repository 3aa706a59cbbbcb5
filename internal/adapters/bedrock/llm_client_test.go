package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/llm-outreach/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func request(model string) core.CompletionRequest {
	return core.CompletionRequest{
		Messages: []core.Message{
			{Role: core.RoleSystem, Content: "be brief"},
			{Role: core.RoleUser, Content: "write"},
		},
		Model:       model,
		Temperature: 0,
		MaxTokens:   300,
	}
}

func TestComplete_Anthropic(t *testing.T) {
	invoker := &fakeInvoker{body: `{"content":[{"type":"text","text":"{\"subject\":\"S\",\"body\":\"B\"}"}]}`}
	client := NewBedrockClient(invoker, time.Second, zap.NewNop())

	text, err := client.Complete(context.Background(), request("anthropic.claude-3-haiku-20240307-v1:0"))
	require.NoError(t, err)
	assert.Equal(t, `{"subject":"S","body":"B"}`, text)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(invoker.input.Body, &payload))
	assert.Equal(t, anthropicVersion, payload["anthropic_version"])
	assert.Equal(t, "be brief", payload["system"])
	assert.EqualValues(t, 300, payload["max_tokens"])
	assert.Contains(t, payload, "temperature")
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", *invoker.input.ModelId)
}

func TestComplete_Titan(t *testing.T) {
	invoker := &fakeInvoker{body: `{"results":[{"outputText":"hello"}]}`}
	client := NewBedrockClient(invoker, time.Second, zap.NewNop())

	text, err := client.Complete(context.Background(), request("amazon.titan-text-express-v1"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	var payload titanRequest
	require.NoError(t, json.Unmarshal(invoker.input.Body, &payload))
	assert.Equal(t, "be brief\n\nwrite", payload.InputText)
	assert.Equal(t, 300, payload.TextGenerationConfig.MaxTokenCount)
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		invoker *fakeInvoker
	}{
		{name: "invoke failure", model: "anthropic.claude-3-haiku", invoker: &fakeInvoker{err: errors.New("throttled")}},
		{name: "bad json", model: "anthropic.claude-3-haiku", invoker: &fakeInvoker{body: `not json`}},
		{name: "empty claude content", model: "anthropic.claude-3-haiku", invoker: &fakeInvoker{body: `{"content":[]}`}},
		{name: "empty titan results", model: "amazon.titan-text-lite-v1", invoker: &fakeInvoker{body: `{"results":[]}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewBedrockClient(tt.invoker, time.Second, zap.NewNop())
			_, err := client.Complete(context.Background(), request(tt.model))
			assert.ErrorIs(t, err, core.ErrModelCall)
		})
	}
}

func TestIsAnthropicModel(t *testing.T) {
	assert.True(t, isAnthropicModel("anthropic.claude-3-haiku-20240307-v1:0"))
	assert.True(t, isAnthropicModel("us.anthropic.claude-3-5-sonnet-20240620-v1:0"))
	assert.False(t, isAnthropicModel("amazon.titan-text-express-v1"))
}
