package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// legacyEnv maps configuration keys to the environment variable names used by
// earlier deployments of the outreach backend.
var legacyEnv = map[string][]string{
	"openai.api_key":              {"OPENROUTER_API_KEY"},
	"openai.model_name":           {"MODEL"},
	"delivery.recipient_override": {"DEMO_RECIPIENT_EMAIL"},
	"delivery.from_email":         {"SENDER_EMAIL"},
	"server.allowed_origins":      {"ALLOWED_ORIGINS"},
	"smtp.username":               {"SENDER_EMAIL"},
	"smtp.password":               {"GMAIL_APP_PASSWORD"},
	"smtp.host":                   {"SMTP_HOST"},
	"smtp.port":                   {"SMTP_PORT"},
}

// New creates a new configuration instance from the default search paths
func New() (*Config, error) {
	return load("")
}

// NewFromFile creates a new configuration instance from the given YAML file
func NewFromFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/llm-outreach/")
		v.AddConfigPath("$HOME/.llm-outreach")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(v)

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// NewEnvViper creates a new Viper instance with defaults and environment
// overrides but no config file
func NewEnvViper() (*viper.Viper, error) {
	v := NewEmptyViper()
	if err := bindEnv(v); err != nil {
		return nil, err
	}
	return v, nil
}

func bindEnv(v *viper.Viper) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return bindLegacyEnv(v)
}

// bindLegacyEnv binds each key to its prefixed variable first, then to the legacy names.
func bindLegacyEnv(v *viper.Viper) error {
	for key, names := range legacyEnv {
		prefixed := "OUTREACH_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		args := append([]string{key, prefixed}, names...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// LLM provider defaults
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.timeout", "30s")

	// OpenAI-compatible defaults (OpenRouter)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openai.model_name", "mistralai/mistral-7b-instruct:free")

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-1.5-flash")

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-3-haiku-20240307-v1:0")

	// Generation defaults
	v.SetDefault("generation.temperature", 0.7)
	v.SetDefault("generation.max_tokens", 500)
	v.SetDefault("generation.tone", "Friendly")
	v.SetDefault("generation.variants", 1)
	v.SetDefault("generation.concurrency", 1)
	v.SetDefault("generation.excerpt_size", 1000)

	// Server defaults
	v.SetDefault("server.listen_address", ":8000")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Delivery defaults
	v.SetDefault("delivery.provider", "smtp")
	v.SetDefault("delivery.from_email", "")
	v.SetDefault("delivery.from_name", "")
	v.SetDefault("delivery.recipient_override", "")
	v.SetDefault("delivery.allowed_domains", []string{})

	// SMTP defaults
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.starttls", true)
	v.SetDefault("smtp.timeout", "30s")
	v.SetDefault("smtp.max_attempts", 1)
	v.SetDefault("smtp.retry_delay", "2s")

	// Resend defaults
	v.SetDefault("resend.api_key", "")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration.
// A single comma-separated string (as found in environment variables) is split on commas.
func (c *Config) GetStringSlice(key string) []string {
	var items []string
	switch val := c.v.Get(key).(type) {
	case string:
		items = strings.Split(val, ",")
	default:
		items = c.v.GetStringSlice(key)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
