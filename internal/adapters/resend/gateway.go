package resend

import (
	"context"
	"net/mail"

	"github.com/mikey/llm-outreach/internal/core"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

const providerName = "Resend"

// Gateway sends emails using the Resend API
type Gateway struct {
	client *resend.Client
	logger *zap.Logger
}

// NewGateway creates a new Resend gateway
func NewGateway(apiKey string, logger *zap.Logger) *Gateway {
	return &Gateway{
		client: resend.NewClient(apiKey),
		logger: logger,
	}
}

// Send sends an email using the Resend API
func (g *Gateway) Send(ctx context.Context, email *core.OutboundEmail) error {
	from := email.From
	if email.FromName != "" {
		from = (&mail.Address{Name: email.FromName, Address: email.From}).String()
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
	}

	sent, err := g.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return &core.DeliveryError{Provider: providerName, Err: err}
	}

	g.logger.Info("Email accepted by Resend",
		zap.String("id", sent.Id),
		zap.String("recipient", email.To))

	return nil
}
