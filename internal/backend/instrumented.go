package backend

import (
	"context"

	"github.com/robert-malhotra/scene-availability/internal/metrics"
)

// Instrumented wraps a Catalog, recording query counts and latency.
type Instrumented struct {
	next    Catalog
	metrics *metrics.Collector
}

// Instrument wraps next with metrics. A nil collector returns next unchanged.
func Instrument(next Catalog, m *metrics.Collector) Catalog {
	if m == nil {
		return next
	}
	return &Instrumented{next: next, metrics: m}
}

// Name returns the wrapped backend's name.
func (c *Instrumented) Name() string {
	return c.next.Name()
}

// TimeRange implements Catalog.
func (c *Instrumented) TimeRange(ctx context.Context, q Query) (TimeRange, bool, error) {
	done := c.observe("time_range")
	tr, ok, err := c.next.TimeRange(ctx, q)
	done(err)
	return tr, ok, err
}

// Count implements Catalog.
func (c *Instrumented) Count(ctx context.Context, q Query) (int, error) {
	done := c.observe("count")
	n, err := c.next.Count(ctx, q)
	done(err)
	return n, err
}

// Aggregate implements Catalog.
func (c *Instrumented) Aggregate(ctx context.Context, q Query, property string) ([]any, error) {
	done := c.observe("aggregate")
	values, err := c.next.Aggregate(ctx, q, property)
	done(err)
	return values, err
}

func (c *Instrumented) observe(operation string) func(error) {
	name := c.next.Name()
	timer := c.metrics.NewTimer(c.metrics.CatalogQueryDuration.WithLabelValues(name, operation))
	return func(err error) {
		timer.ObserveDuration()
		c.metrics.RecordCatalogQuery(name, operation, err)
	}
}
