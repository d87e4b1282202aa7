package provider

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/metrics"
	"github.com/julianstephens/smartgrow/internal/models"
)

// Chain tries each provider in order until one returns a record. A
// not-a-plant answer is final and is not retried on the next provider.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	var ps []Provider
	for _, p := range providers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &Chain{providers: ps}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Len() int { return len(c.providers) }

func (c *Chain) Diagnose(ctx context.Context, img Image, lang models.Language) (models.DiagnosisRecord, error) {
	if len(c.providers) == 0 {
		return models.DiagnosisRecord{}, Failure(c.Name(), ErrNoProviders)
	}

	var lastErr error
	for _, p := range c.providers {
		start := time.Now()
		rec, err := p.Diagnose(ctx, img, lang)
		metrics.ProviderLatency.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

		if err == nil {
			outcome := "success"
			if !rec.RecognizedAsPlant() {
				outcome = "not_a_plant"
			}
			metrics.ProviderRequests.WithLabelValues(p.Name(), outcome).Inc()
			return rec, nil
		}

		metrics.ProviderRequests.WithLabelValues(p.Name(), "error").Inc()
		logger.Warn("Diagnosis provider failed", "provider", p.Name(), "error", err)
		lastErr = err
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			break
		}
	}
	return models.DiagnosisRecord{}, Failure(c.Name(), lastErr)
}
