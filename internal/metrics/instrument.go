package metrics

import (
	"context"
	"time"

	"github.com/mikey/llm-outreach/internal/core"
)

type instrumentedModelClient struct {
	next     core.ModelClient
	provider string
	metrics  *Metrics
}

// InstrumentModelClient wraps a model client so that every call is counted and timed
func (m *Metrics) InstrumentModelClient(client core.ModelClient, provider string) core.ModelClient {
	return &instrumentedModelClient{next: client, provider: provider, metrics: m}
}

func (c *instrumentedModelClient) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	start := time.Now()
	text, err := c.next.Complete(ctx, req)
	c.metrics.ModelLatency.WithLabelValues(c.provider).Observe(time.Since(start).Seconds())

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	c.metrics.ModelCalls.WithLabelValues(c.provider, outcome).Inc()
	return text, err
}

type instrumentedGateway struct {
	next     core.DeliveryGateway
	provider string
	metrics  *Metrics
}

// InstrumentGateway wraps a delivery gateway so that every send is counted
func (m *Metrics) InstrumentGateway(gateway core.DeliveryGateway, provider string) core.DeliveryGateway {
	return &instrumentedGateway{next: gateway, provider: provider, metrics: m}
}

func (g *instrumentedGateway) Send(ctx context.Context, email *core.OutboundEmail) error {
	err := g.next.Send(ctx, email)

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	g.metrics.Deliveries.WithLabelValues(g.provider, outcome).Inc()
	return err
}
