// Package logsender provides a delivery gateway that logs emails instead of sending them.
package logsender

import (
	"context"

	"github.com/mikey/llm-outreach/internal/core"
	"github.com/mikey/llm-outreach/internal/utils"
	"go.uber.org/zap"
)

// previewSize bounds the body text written to the log
const previewSize = 2048

// Gateway logs emails instead of sending them.
// Useful for development and testing.
type Gateway struct {
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGateway creates a new log-based gateway
func NewGateway(logger *zap.Logger, textProcessor *utils.TextProcessor) *Gateway {
	return &Gateway{
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Send logs the email details
func (g *Gateway) Send(_ context.Context, email *core.OutboundEmail) error {
	text := email.Text
	if text == "" {
		text = utils.HTMLToText(email.HTML)
	}

	g.logger.Info("EMAIL (dev mode - not actually sent)",
		zap.String("from", email.From),
		zap.String("to", email.To),
		zap.String("reply_to", email.ReplyTo),
		zap.String("subject", email.Subject),
		zap.String("text", g.textProcessor.ProcessText(text, previewSize)),
		zap.Int("html_bytes", len(email.HTML)))
	return nil
}
