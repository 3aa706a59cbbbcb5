package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/llm-outreach/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "outreach"

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the collectors of one process. Each instance owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	ModelCalls      *prometheus.CounterVec
	ModelLatency    *prometheus.HistogramVec
	VariantFailures *prometheus.CounterVec
	Deliveries      *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them with a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ModelCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_calls_total",
				Help:      "Total number of language model calls",
			},
			[]string{"provider", "outcome"},
		),
		ModelLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "model_call_duration_seconds",
				Help:      "Language model call latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to ~32s
			},
			[]string{"provider"},
		),
		VariantFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_failures_total",
				Help:      "Total number of failed generations by failure kind",
			},
			[]string{"kind"},
		),
		Deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deliveries_total",
				Help:      "Total number of email deliveries",
			},
			[]string{"provider", "outcome"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~32s
			},
			[]string{"method", "path", "status"},
		),
	}
}

// Registry returns the registry the collectors are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordGenerationFailure counts a failed generation under its failure kind
func (m *Metrics) RecordGenerationFailure(err error) {
	m.VariantFailures.WithLabelValues(FailureKind(err)).Inc()
}

// FailureKind maps a generation error to a short label value
func FailureKind(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, core.ErrModelCall):
		return "model"
	case errors.Is(err, core.ErrParse):
		return "parse"
	case errors.Is(err, core.ErrShape):
		return "shape"
	case errors.Is(err, core.ErrValidation):
		return "validation"
	case errors.Is(err, core.ErrNoVariants):
		return "no_variants"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}

// GinMiddleware records the duration of every request by route template
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
