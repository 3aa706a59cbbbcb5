package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mikey/llm-outreach/internal/config"
	"go.uber.org/zap"
)

// DeliveryService routes drafted emails to the configured gateway
type DeliveryService struct {
	gateway  DeliveryGateway
	policy   RecipientPolicy
	logger   *zap.Logger
	from     string
	fromName string
	override string
}

// NewDeliveryService creates a new delivery service. policy may be nil.
func NewDeliveryService(
	gateway DeliveryGateway,
	policy RecipientPolicy,
	logger *zap.Logger,
	cfg config.DeliveryConfig,
) *DeliveryService {
	return &DeliveryService{
		gateway:  gateway,
		policy:   policy,
		logger:   logger,
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
		override: strings.TrimSpace(cfg.RecipientOverride),
	}
}

// Send delivers the email. When a recipient override is configured every
// message goes to that address instead of the requested one.
func (s *DeliveryService) Send(ctx context.Context, req *SendRequest) (*SendResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	recipient := strings.TrimSpace(req.RecipientEmail)
	demo := s.override != ""
	if demo {
		s.logger.Info("Routing email to demo recipient",
			zap.String("requested", recipient),
			zap.String("recipient", s.override))
		recipient = s.override
	}

	if s.policy != nil && !s.policy.IsWhitelisted(recipient) {
		return nil, fmt.Errorf("%w: recipient domain is not allowed", ErrInvalidRequest)
	}

	email := &OutboundEmail{
		From:     s.from,
		FromName: s.fromName,
		To:       recipient,
		ReplyTo:  strings.TrimSpace(req.ReplyTo),
		Subject:  req.Subject,
		HTML:     req.Body,
		Text:     req.PlainText,
	}

	if err := s.gateway.Send(ctx, email); err != nil {
		if !errors.Is(err, ErrDelivery) {
			err = &DeliveryError{Provider: "delivery", Err: err}
		}
		s.logger.Error("Failed to send email",
			zap.String("recipient", recipient),
			zap.Error(err))
		return nil, err
	}

	message := fmt.Sprintf("Email sent to %s", recipient)
	if demo {
		message += " (demo mode)"
	}

	s.logger.Info("Email sent",
		zap.String("recipient", recipient),
		zap.Bool("demo", demo))

	return &SendResult{
		Status:    "success",
		Message:   message,
		Recipient: recipient,
	}, nil
}
