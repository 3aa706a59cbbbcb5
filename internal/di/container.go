package di

import (
	"go.uber.org/dig"

	"github.com/mikey/llm-outreach/internal/config"
	"github.com/mikey/llm-outreach/internal/core"
	"github.com/mikey/llm-outreach/internal/factory"
	"github.com/mikey/llm-outreach/internal/logging"
	"github.com/mikey/llm-outreach/internal/metrics"
	"github.com/mikey/llm-outreach/internal/ports"
	"github.com/mikey/llm-outreach/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideTextProcessor(container); err != nil {
		return nil, err
	}

	// Register metrics
	if err := container.Provide(metrics.New); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewDeliveryFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewServerFactory); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	// Register delivery gateway, recipient policy and settings
	if err := container.Provide(func(f *factory.DeliveryFactory) (core.DeliveryGateway, error) {
		return f.CreateGateway()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.DeliveryFactory) core.RecipientPolicy {
		return f.CreateRecipientPolicy()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.DeliveryFactory) (config.DeliveryConfig, error) {
		return f.GetDeliveryConfig()
	}); err != nil {
		return nil, err
	}

	// Register delivery service
	if err := container.Provide(core.NewDeliveryService); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(f *factory.ServerFactory) (ports.Server, error) {
		return f.CreateServer()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideTextProcessor registers the text processor used for log previews
func provideTextProcessor(container *dig.Container) error {
	return container.Provide(utils.NewTextProcessor)
}

// provideServices registers the model client and the generation service
func provideServices(container *dig.Container) error {
	if err := container.Provide(func(f *factory.LLMFactory) (core.ModelClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return err
	}

	if err := container.Provide(func(cfg *config.Config) (config.LLMConfig, error) {
		return cfg.GetLLM()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(cfg *config.Config) config.GenerationConfig {
		return cfg.GetGeneration()
	}); err != nil {
		return err
	}

	return container.Provide(core.NewGenerationService)
}
