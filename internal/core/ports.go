package core

import (
	"context"
)

// ModelClient issues a single chat completion and returns the raw text of the first choice
type ModelClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// DeliveryGateway hands a finished email to an email provider
type DeliveryGateway interface {
	Send(ctx context.Context, email *OutboundEmail) error
}

// RecipientPolicy decides whether an address may receive outreach mail
type RecipientPolicy interface {
	IsWhitelisted(address string) bool
}
