package di

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey/llm-outreach/internal/config"
	"github.com/mikey/llm-outreach/internal/core"
	"github.com/mikey/llm-outreach/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContainer_ResolvesServer(t *testing.T) {
	t.Setenv("OUTREACH_OPENAI_API_KEY", "sk-test")
	t.Setenv("OUTREACH_DELIVERY_PROVIDER", "log")
	t.Setenv("OUTREACH_SERVER_LISTEN_ADDRESS", "127.0.0.1:0")

	container, err := BuildContainer()
	require.NoError(t, err)

	err = container.Invoke(func(server ports.Server, generation *core.GenerationService, delivery *core.DeliveryService) {
		assert.NotNil(t, server)
		assert.NotNil(t, generation)
		assert.NotNil(t, delivery)
	})
	require.NoError(t, err)
}

func TestBuildContainer_MissingAPIKey(t *testing.T) {
	t.Setenv("OUTREACH_OPENAI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OUTREACH_DELIVERY_PROVIDER", "log")

	container, err := BuildContainer()
	require.NoError(t, err)

	err = container.Invoke(func(ports.Server) {})
	assert.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	flags, err := ParseFlags([]string{"-provider", "gemini", "-model", "gemini-1.5-pro", "-variants", "3", "-temperature", "0"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "gemini", flags.Provider)
	assert.True(t, flags.set["temperature"])
	assert.False(t, flags.set["tone"])

	_, err = ParseFlags([]string{"-variants", "many"}, io.Discard)
	assert.Error(t, err)
}

func TestCreateConfigFromFlags(t *testing.T) {
	flags, err := ParseFlags([]string{
		"-provider", "gemini",
		"-model", "gemini-1.5-pro",
		"-gemini-api-key", "g-key",
		"-temperature", "0",
		"-variants", "3",
	}, io.Discard)
	require.NoError(t, err)

	cfg, err := createConfigFromFlags(flags)
	require.NoError(t, err)

	llm, err := cfg.GetLLM()
	require.NoError(t, err)
	assert.Equal(t, "gemini", llm.Provider)
	assert.Equal(t, "gemini-1.5-pro", llm.Model)
	assert.Equal(t, "g-key", cfg.GetGemini().APIKey)

	gen := cfg.GetGeneration()
	assert.Equal(t, 0.0, gen.Temperature, "an explicit zero temperature is kept")
	assert.Equal(t, 3, gen.Variants)
	assert.Equal(t, "Friendly", gen.Tone, "unset flags leave defaults alone")
}

func TestCreateConfigFromFlags_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outreach.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generation:\n  tone: Professional\n  max_tokens: 800\n"), 0o600))

	flags, err := ParseFlags([]string{"-config", path, "-max-tokens", "300"}, io.Discard)
	require.NoError(t, err)

	cfg, err := createConfigFromFlags(flags)
	require.NoError(t, err)

	gen := cfg.GetGeneration()
	assert.Equal(t, "Professional", gen.Tone)
	assert.Equal(t, 300, gen.MaxTokens)
}

func TestCreateConfigFromFlags_MissingFile(t *testing.T) {
	flags, err := ParseFlags([]string{"-config", filepath.Join(t.TempDir(), "absent.yaml")}, io.Discard)
	require.NoError(t, err)

	_, err = createConfigFromFlags(flags)
	assert.Error(t, err)
}

func TestBuildCLIContainer_ResolvesGenerationService(t *testing.T) {
	flags, err := ParseFlags([]string{"-openai-api-key", "sk-test"}, io.Discard)
	require.NoError(t, err)

	container, err := BuildCLIContainer(flags)
	require.NoError(t, err)

	err = container.Invoke(func(cfg *config.Config, svc *core.GenerationService) {
		assert.Equal(t, "sk-test", cfg.GetOpenAI().APIKey)
		assert.NotNil(t, svc)
	})
	require.NoError(t, err)
}

func TestBuildCLIContainer_RejectsOutOfRangeVariants(t *testing.T) {
	flags, err := ParseFlags([]string{"-openai-api-key", "sk-test", "-variants", "50"}, io.Discard)
	require.NoError(t, err)

	container, err := BuildCLIContainer(flags)
	require.NoError(t, err)

	err = container.Invoke(func(*core.GenerationService) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation.variants")
}
