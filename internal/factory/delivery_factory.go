package factory

import (
	"fmt"

	"github.com/mikey/llm-outreach/internal/adapters/logsender"
	"github.com/mikey/llm-outreach/internal/adapters/resend"
	"github.com/mikey/llm-outreach/internal/adapters/smtp"
	"github.com/mikey/llm-outreach/internal/config"
	"github.com/mikey/llm-outreach/internal/core"
	"github.com/mikey/llm-outreach/internal/metrics"
	"github.com/mikey/llm-outreach/internal/utils"
	"github.com/mikey/llm-outreach/internal/whitelist"
	"go.uber.org/zap"
)

// DeliveryFactory creates delivery gateways based on configuration
type DeliveryFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	metrics       *metrics.Metrics
	textProcessor *utils.TextProcessor
}

// NewDeliveryFactory creates a new delivery factory. m may be nil.
func NewDeliveryFactory(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	textProcessor *utils.TextProcessor,
) *DeliveryFactory {
	return &DeliveryFactory{
		cfg:           cfg,
		logger:        logger,
		metrics:       m,
		textProcessor: textProcessor,
	}
}

// CreateGateway creates the delivery gateway selected by delivery.provider
func (f *DeliveryFactory) CreateGateway() (core.DeliveryGateway, error) {
	provider := f.cfg.GetString("delivery.provider")

	var gateway core.DeliveryGateway
	switch provider {
	case "smtp":
		smtpCfg, err := f.cfg.GetSMTP()
		if err != nil {
			return nil, err
		}
		if smtpCfg.Host == "" || smtpCfg.Port <= 0 {
			return nil, fmt.Errorf("smtp host and port are required")
		}
		gateway = smtp.NewGateway(smtpCfg, f.logger)
	case "resend":
		resendCfg := f.cfg.GetResend()
		if resendCfg.APIKey == "" {
			return nil, fmt.Errorf("resend API key is required")
		}
		gateway = resend.NewGateway(resendCfg.APIKey, f.logger)
	case "log":
		gateway = logsender.NewGateway(f.logger, f.textProcessor)
	default:
		return nil, fmt.Errorf("unsupported delivery provider: %s", provider)
	}

	f.logger.Info("Created delivery gateway", zap.String("provider", provider))

	if f.metrics != nil {
		gateway = f.metrics.InstrumentGateway(gateway, provider)
	}
	return gateway, nil
}

// CreateRecipientPolicy creates the recipient domain whitelist
func (f *DeliveryFactory) CreateRecipientPolicy() core.RecipientPolicy {
	return whitelist.NewChecker(f.cfg.GetStringSlice("delivery.allowed_domains"), f.logger)
}

// GetDeliveryConfig returns the delivery settings. The SMTP username doubles
// as the sender address when none is configured.
func (f *DeliveryFactory) GetDeliveryConfig() (config.DeliveryConfig, error) {
	deliveryCfg := f.cfg.GetDelivery()
	if deliveryCfg.FromEmail == "" {
		deliveryCfg.FromEmail = f.cfg.GetString("smtp.username")
	}
	if deliveryCfg.FromEmail == "" && deliveryCfg.Provider != "log" {
		return config.DeliveryConfig{}, fmt.Errorf("delivery.from_email is required")
	}
	return deliveryCfg, nil
}
