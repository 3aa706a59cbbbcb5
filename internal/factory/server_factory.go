package factory

import (
	"github.com/mikey/llm-outreach/internal/adapters/httpapi"
	"github.com/mikey/llm-outreach/internal/config"
	"github.com/mikey/llm-outreach/internal/core"
	"github.com/mikey/llm-outreach/internal/metrics"
	"github.com/mikey/llm-outreach/internal/ports"
	"go.uber.org/zap"
)

// ServerFactory creates the HTTP front end
type ServerFactory struct {
	cfg        *config.Config
	logger     *zap.Logger
	generation *core.GenerationService
	delivery   *core.DeliveryService
	metrics    *metrics.Metrics
}

// NewServerFactory creates a new server factory
func NewServerFactory(
	cfg *config.Config,
	logger *zap.Logger,
	generation *core.GenerationService,
	delivery *core.DeliveryService,
	m *metrics.Metrics,
) *ServerFactory {
	return &ServerFactory{
		cfg:        cfg,
		logger:     logger,
		generation: generation,
		delivery:   delivery,
		metrics:    m,
	}
}

// CreateServer creates the HTTP server based on the configuration
func (f *ServerFactory) CreateServer() (ports.Server, error) {
	serverCfg, err := f.cfg.GetServer()
	if err != nil {
		return nil, err
	}
	return httpapi.NewServer(serverCfg, f.logger, f.generation, f.delivery, f.metrics)
}
