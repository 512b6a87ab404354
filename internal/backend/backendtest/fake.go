// Package backendtest provides a scriptable in-memory catalog for tests.
package backendtest

import (
	"context"
	"sync"

	"github.com/robert-malhotra/scene-availability/internal/backend"
)

// Catalog is a backend.Catalog whose answers come from the function fields.
// A nil function answers with zero values. Every query is recorded.
type Catalog struct {
	TimeRangeFunc func(q backend.Query) (backend.TimeRange, bool, error)
	CountFunc     func(q backend.Query) (int, error)
	AggregateFunc func(q backend.Query, property string) ([]any, error)

	mu      sync.Mutex
	queries []backend.Query
}

// Name returns the backend name.
func (c *Catalog) Name() string {
	return "fake"
}

// TimeRange implements backend.Catalog.
func (c *Catalog) TimeRange(_ context.Context, q backend.Query) (backend.TimeRange, bool, error) {
	c.record(q)
	if c.TimeRangeFunc == nil {
		return backend.TimeRange{}, false, nil
	}
	return c.TimeRangeFunc(q)
}

// Count implements backend.Catalog.
func (c *Catalog) Count(_ context.Context, q backend.Query) (int, error) {
	c.record(q)
	if c.CountFunc == nil {
		return 0, nil
	}
	return c.CountFunc(q)
}

// Aggregate implements backend.Catalog.
func (c *Catalog) Aggregate(_ context.Context, q backend.Query, property string) ([]any, error) {
	c.record(q)
	if c.AggregateFunc == nil {
		return nil, nil
	}
	return c.AggregateFunc(q, property)
}

// Queries returns every query received so far, in order.
func (c *Catalog) Queries() []backend.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]backend.Query(nil), c.queries...)
}

func (c *Catalog) record(q backend.Query) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, q)
}

// HasFilter reports whether q carries a filter on property with op.
func HasFilter(q backend.Query, property string, op backend.Op) (any, bool) {
	for _, f := range q.Filters {
		if f.Property == property && f.Op == op {
			return f.Value, true
		}
	}
	return nil, false
}
