// Package backend provides the catalog abstraction the availability reports
// query, with implementations for the ASF Search API and STAC APIs.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robert-malhotra/scene-availability/internal/config"
	"github.com/robert-malhotra/scene-availability/internal/geo"
	"github.com/robert-malhotra/scene-availability/internal/translate"
)

// Item properties understood by every catalog. Names follow the STAC
// SAR, SAT and EO extensions.
const (
	PropDatetime       = "datetime"
	PropInstrumentMode = "sar:instrument_mode"
	PropPolarizations  = "sar:polarizations"
	PropOrbitState     = "sat:orbit_state"
	PropCloudCover     = "eo:cloud_cover"
)

var (
	// ErrUnknownCollection is returned for collection IDs missing from the registry.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrUnsupportedProperty is returned when a catalog cannot report a property.
	ErrUnsupportedProperty = errors.New("unsupported property")

	// ErrUnsupportedFilter is returned when a catalog cannot apply a filter.
	ErrUnsupportedFilter = translate.ErrUnsupportedFilter
)

// Catalog answers the metadata questions the availability reports ask about
// a collection.
type Catalog interface {
	// TimeRange returns the earliest and latest acquisition times matching q.
	// The boolean is false when nothing matches.
	TimeRange(ctx context.Context, q Query) (TimeRange, bool, error)

	// Count returns the number of images matching q.
	Count(ctx context.Context, q Query) (int, error)

	// Aggregate returns the value of property for every image matching q.
	Aggregate(ctx context.Context, q Query, property string) ([]any, error)

	// Name returns the backend name (e.g., "asf", "stac").
	Name() string
}

// Op is a filter comparison operator.
type Op string

const (
	OpEq Op = "eq"
	OpLt Op = "lt"
)

// Filter restricts a query on one item property.
type Filter struct {
	Property string
	Op       Op
	Value    any
}

// Eq matches images whose property equals value.
func Eq(property string, value any) Filter {
	return Filter{Property: property, Op: OpEq, Value: value}
}

// Lt matches images whose property is strictly below value.
func Lt(property string, value any) Filter {
	return Filter{Property: property, Op: OpLt, Value: value}
}

func (f Filter) String() string {
	return fmt.Sprintf("%s %s %v", f.Property, f.Op, f.Value)
}

// Query selects images from one collection. Start is inclusive and End
// exclusive; a zero bound leaves that side open.
type Query struct {
	Collection string
	AOI        *geo.Polygon
	Start      time.Time
	End        time.Time
	Filters    []Filter
}

// Between returns a copy of q restricted to [start, end).
func (q Query) Between(start, end time.Time) Query {
	q.Start, q.End = start, end
	return q
}

// With returns a copy of q with extra filters appended.
func (q Query) With(filters ...Filter) Query {
	merged := make([]Filter, 0, len(q.Filters)+len(filters))
	merged = append(merged, q.Filters...)
	merged = append(merged, filters...)
	q.Filters = merged
	return q
}

func (q Query) startPtr() *time.Time {
	if q.Start.IsZero() {
		return nil
	}
	t := q.Start
	return &t
}

func (q Query) endPtr() *time.Time {
	if q.End.IsZero() {
		return nil
	}
	t := q.End
	return &t
}

// TimeRange is the span of acquisition times in a result set.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Router sends each query to the catalog configured for its collection.
type Router struct {
	collections *config.CollectionRegistry
	catalogs    map[config.BackendType]Catalog
}

// NewRouter creates a router over the given backends.
func NewRouter(collections *config.CollectionRegistry, catalogs map[config.BackendType]Catalog) *Router {
	return &Router{collections: collections, catalogs: catalogs}
}

// Name returns the backend name.
func (r *Router) Name() string {
	return "router"
}

// For returns the catalog serving collection.
func (r *Router) For(collection string) (Catalog, error) {
	c := r.collections.Get(collection)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	cat, ok := r.catalogs[c.Backend]
	if !ok {
		return nil, fmt.Errorf("no %s backend configured for collection %q", c.Backend, collection)
	}
	return cat, nil
}

// TimeRange implements Catalog.
func (r *Router) TimeRange(ctx context.Context, q Query) (TimeRange, bool, error) {
	cat, err := r.For(q.Collection)
	if err != nil {
		return TimeRange{}, false, err
	}
	return cat.TimeRange(ctx, q)
}

// Count implements Catalog.
func (r *Router) Count(ctx context.Context, q Query) (int, error) {
	cat, err := r.For(q.Collection)
	if err != nil {
		return 0, err
	}
	return cat.Count(ctx, q)
}

// Aggregate implements Catalog.
func (r *Router) Aggregate(ctx context.Context, q Query, property string) ([]any, error) {
	cat, err := r.For(q.Collection)
	if err != nil {
		return nil, err
	}
	return cat.Aggregate(ctx, q, property)
}

func lookup(collections *config.CollectionRegistry, id string) (*config.CollectionConfig, error) {
	c := collections.Get(id)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, id)
	}
	return c, nil
}
