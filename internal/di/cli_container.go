package di

import (
	"flag"
	"io"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-outreach/internal/config"
	"github.com/mikey/llm-outreach/internal/factory"
	"github.com/mikey/llm-outreach/internal/logging"
	"github.com/mikey/llm-outreach/internal/metrics"
)

// CLIFlags contains all command line flags for the drafting CLI
type CLIFlags struct {
	// LLM provider flags
	Provider string
	Model    string
	Timeout  string

	// Provider credentials
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string
	BedrockRegion string

	// Generation flags
	Temperature float64
	MaxTokens   int
	Tone        string
	Variants    int
	Concurrency int

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	ConfigFile string

	// set records the flags given explicitly on the command line
	set map[string]bool
}

// ParseFlags parses command line arguments (without the program name)
func ParseFlags(args []string, output io.Writer) (*CLIFlags, error) {
	flags := &CLIFlags{set: map[string]bool{}}
	fs := flag.NewFlagSet("outreach-draft", flag.ContinueOnError)
	fs.SetOutput(output)

	// LLM provider flags
	fs.StringVar(&flags.Provider, "provider", "openai", "LLM provider (openai, openrouter, gemini, bedrock)")
	fs.StringVar(&flags.Model, "model", "", "Model name for the selected provider")
	fs.StringVar(&flags.Timeout, "timeout", "", "Per-call model timeout (e.g. 30s)")

	// Provider credentials
	fs.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI or OpenRouter")
	fs.StringVar(&flags.OpenAIBaseURL, "openai-base-url", "", "Base URL of the OpenAI-compatible endpoint")
	fs.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	fs.StringVar(&flags.BedrockRegion, "bedrock-region", "", "AWS region for Bedrock")

	// Generation flags
	fs.Float64Var(&flags.Temperature, "temperature", 0.7, "Base sampling temperature")
	fs.IntVar(&flags.MaxTokens, "max-tokens", 500, "Maximum tokens per variant")
	fs.StringVar(&flags.Tone, "tone", "Friendly", "Default tone when the lead file has none")
	fs.IntVar(&flags.Variants, "variants", 1, "Default number of variants when the lead file has none")
	fs.IntVar(&flags.Concurrency, "concurrency", 1, "Number of variants drafted in parallel")

	// Input flags
	fs.StringVar(&flags.InputFile, "file", "", "Lead JSON file (use stdin if not specified)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to a config file; explicit flags take precedence")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { flags.set[f.Name] = true })

	return flags, nil
}

// BuildCLIContainer creates and configures a dependency injection container for the drafting CLI
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := createConfigFromFlags(flags)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Info("Loaded configuration from file", zap.String("file", used))
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// No metrics for one-shot runs
	if err := container.Provide(func() *metrics.Metrics { return nil }); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags layers the explicitly given flags over the config
// file, or over defaults and environment when no file is named.
func createConfigFromFlags(flags *CLIFlags) (*config.Config, error) {
	var cfg *config.Config
	if flags.ConfigFile != "" {
		loaded, err := config.NewFromFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		v, err := config.NewEnvViper()
		if err != nil {
			return nil, err
		}
		cfg = config.NewFromViper(v)
	}
	v := cfg.GetViper()

	if flags.set["provider"] {
		v.Set("llm.provider", flags.Provider)
	}
	if flags.set["timeout"] {
		v.Set("llm.timeout", flags.Timeout)
	}

	if flags.set["model"] {
		switch v.GetString("llm.provider") {
		case "gemini":
			v.Set("gemini.model_name", flags.Model)
		case "bedrock":
			v.Set("bedrock.model_id", flags.Model)
		default:
			v.Set("openai.model_name", flags.Model)
		}
	}

	// Credentials only override when given
	if flags.OpenAIAPIKey != "" {
		v.Set("openai.api_key", flags.OpenAIAPIKey)
	}
	if flags.OpenAIBaseURL != "" {
		v.Set("openai.base_url", flags.OpenAIBaseURL)
	}
	if flags.GeminiAPIKey != "" {
		v.Set("gemini.api_key", flags.GeminiAPIKey)
	}
	if flags.BedrockRegion != "" {
		v.Set("bedrock.region", flags.BedrockRegion)
	}

	// Generation defaults
	if flags.set["temperature"] {
		v.Set("generation.temperature", flags.Temperature)
	}
	if flags.set["max-tokens"] {
		v.Set("generation.max_tokens", flags.MaxTokens)
	}
	if flags.set["tone"] {
		v.Set("generation.tone", flags.Tone)
	}
	if flags.set["variants"] {
		v.Set("generation.variants", flags.Variants)
	}
	if flags.set["concurrency"] {
		v.Set("generation.concurrency", flags.Concurrency)
	}

	return cfg, nil
}
