package config

import (
	"fmt"
	"time"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
	Model    string
	Timeout  time.Duration
}

// OpenAIConfig represents the configuration for an OpenAI-compatible endpoint
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	ModelName string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey    string
	ModelName string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region  string
	ModelID string
}

// GenerationConfig holds the request defaults and execution settings of the orchestrator
type GenerationConfig struct {
	Temperature float64
	MaxTokens   int
	Tone        string
	Variants    int
	Concurrency int
	ExcerptSize int
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	ListenAddress   string
	AllowedOrigins  []string
	Mode            string
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
	MetricsPath     string
}

// DeliveryConfig represents the outbound email configuration shared by all providers
type DeliveryConfig struct {
	Provider          string
	FromEmail         string
	FromName          string
	RecipientOverride string
	AllowedDomains    []string
}

// SMTPConfig represents the SMTP relay configuration
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	StartTLS    bool
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// ResendConfig represents the Resend API configuration
type ResendConfig struct {
	APIKey string
}

// GetLLM returns the LLM configuration. The model is taken from the section of
// the selected provider.
func (c *Config) GetLLM() (LLMConfig, error) {
	timeout, err := c.GetDuration("llm.timeout")
	if err != nil {
		return LLMConfig{}, fmt.Errorf("invalid llm timeout: %w", err)
	}

	provider := c.GetString("llm.provider")
	var model string
	switch provider {
	case "openai", "openrouter":
		model = c.GetString("openai.model_name")
	case "gemini":
		model = c.GetString("gemini.model_name")
	case "bedrock":
		model = c.GetString("bedrock.model_id")
	}

	return LLMConfig{
		Provider: provider,
		Model:    model,
		Timeout:  timeout,
	}, nil
}

// GetOpenAI returns the OpenAI-compatible configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:    c.GetString("openai.api_key"),
		BaseURL:   c.GetString("openai.base_url"),
		ModelName: c.GetString("openai.model_name"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:    c.GetString("gemini.api_key"),
		ModelName: c.GetString("gemini.model_name"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:  c.GetString("bedrock.region"),
		ModelID: c.GetString("bedrock.model_id"),
	}
}

// GetGeneration returns the generation defaults
func (c *Config) GetGeneration() GenerationConfig {
	return GenerationConfig{
		Temperature: c.GetFloat64("generation.temperature"),
		MaxTokens:   c.GetInt("generation.max_tokens"),
		Tone:        c.GetString("generation.tone"),
		Variants:    c.GetInt("generation.variants"),
		Concurrency: c.GetInt("generation.concurrency"),
		ExcerptSize: c.GetInt("generation.excerpt_size"),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	shutdown, err := c.GetDuration("server.shutdown_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server shutdown timeout: %w", err)
	}

	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		AllowedOrigins:  c.GetStringSlice("server.allowed_origins"),
		Mode:            c.GetString("server.mode"),
		ShutdownTimeout: shutdown,
		MetricsEnabled:  c.GetBool("metrics.enabled"),
		MetricsPath:     c.GetString("metrics.path"),
	}, nil
}

// GetDelivery returns the delivery configuration
func (c *Config) GetDelivery() DeliveryConfig {
	return DeliveryConfig{
		Provider:          c.GetString("delivery.provider"),
		FromEmail:         c.GetString("delivery.from_email"),
		FromName:          c.GetString("delivery.from_name"),
		RecipientOverride: c.GetString("delivery.recipient_override"),
		AllowedDomains:    c.GetStringSlice("delivery.allowed_domains"),
	}
}

// GetSMTP returns the SMTP configuration
func (c *Config) GetSMTP() (SMTPConfig, error) {
	timeout, err := c.GetDuration("smtp.timeout")
	if err != nil {
		return SMTPConfig{}, fmt.Errorf("invalid smtp timeout: %w", err)
	}
	retryDelay, err := c.GetDuration("smtp.retry_delay")
	if err != nil {
		return SMTPConfig{}, fmt.Errorf("invalid smtp retry delay: %w", err)
	}

	return SMTPConfig{
		Host:        c.GetString("smtp.host"),
		Port:        c.GetInt("smtp.port"),
		Username:    c.GetString("smtp.username"),
		Password:    c.GetString("smtp.password"),
		StartTLS:    c.GetBool("smtp.starttls"),
		Timeout:     timeout,
		MaxAttempts: c.GetInt("smtp.max_attempts"),
		RetryDelay:  retryDelay,
	}, nil
}

// GetResend returns the Resend configuration
func (c *Config) GetResend() ResendConfig {
	return ResendConfig{
		APIKey: c.GetString("resend.api_key"),
	}
}
