package backend

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/planetlabs/go-ogc/filter"

	"github.com/robert-malhotra/scene-availability/internal/config"
	"github.com/robert-malhotra/scene-availability/internal/stac"
	"github.com/robert-malhotra/scene-availability/internal/translate"
)

// STACBackend implements Catalog for STAC APIs supporting item search with
// the filter and sort extensions. Collections may live on different APIs.
type STACBackend struct {
	collections *config.CollectionRegistry
	cfg         config.STACConfig
	logger      *slog.Logger

	mu      sync.Mutex
	clients map[string]*stac.Client
}

// NewSTACBackend creates a new STAC backend.
func NewSTACBackend(collections *config.CollectionRegistry, cfg config.STACConfig, logger *slog.Logger) *STACBackend {
	return &STACBackend{
		collections: collections,
		cfg:         cfg,
		logger:      logger,
		clients:     make(map[string]*stac.Client),
	}
}

// Name returns the backend name.
func (b *STACBackend) Name() string {
	return "stac"
}

// TimeRange asks for the first item sorted by datetime in each direction.
func (b *STACBackend) TimeRange(ctx context.Context, q Query) (TimeRange, bool, error) {
	first, err := b.edge(ctx, q, stac.SortAsc)
	if err != nil || first == nil {
		return TimeRange{}, false, err
	}
	last, err := b.edge(ctx, q, stac.SortDesc)
	if err != nil {
		return TimeRange{}, false, err
	}
	if last == nil {
		last = first
	}
	return TimeRange{Start: *first, End: *last}, true, nil
}

// Count prefers the server's numberMatched and falls back to paging.
func (b *STACBackend) Count(ctx context.Context, q Query) (int, error) {
	client, req, _, err := b.prepare(q)
	if err != nil {
		return 0, err
	}
	req.Limit = b.cfg.PageSize

	total := 0
	err = client.Each(ctx, req, func(page *stac.SearchResponse) bool {
		if n, ok := page.Matched(); ok {
			total = n
			return false
		}
		total += len(page.Features)
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("STAC count failed: %w", err)
	}
	return total, nil
}

// Aggregate pages through every matching item collecting property.
func (b *STACBackend) Aggregate(ctx context.Context, q Query, property string) ([]any, error) {
	client, req, coll, err := b.prepare(q)
	if err != nil {
		return nil, err
	}
	req.Limit = b.cfg.PageSize
	name := propertyName(coll, property)

	items, err := client.SearchAll(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("STAC search failed: %w", err)
	}

	values := make([]any, 0, len(items))
	for _, item := range items {
		values = append(values, item.Properties[name])
	}
	return values, nil
}

func (b *STACBackend) edge(ctx context.Context, q Query, dir stac.SortDirection) (*time.Time, error) {
	client, req, _, err := b.prepare(q)
	if err != nil {
		return nil, err
	}
	req.Limit = 1
	req.SortBy = []stac.SortBy{stac.SortByDatetime(dir)}

	resp, err := client.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("STAC search failed: %w", err)
	}
	if len(resp.Features) == 0 {
		return nil, nil
	}

	props := resp.Features[0].Properties
	v := props["datetime"]
	if v == nil {
		v = props["start_datetime"]
	}
	t, err := translate.ParseSTACTime(v)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", resp.Features[0].Id, err)
	}
	return &t, nil
}

func (b *STACBackend) prepare(q Query) (*stac.Client, *stac.SearchRequest, *config.CollectionConfig, error) {
	coll, err := lookup(b.collections, q.Collection)
	if err != nil {
		return nil, nil, nil, err
	}

	req := &stac.SearchRequest{
		Collections: []string{coll.RemoteID()},
		Intersects:  q.AOI,
		Datetime:    translate.FormatDateTimeInterval(q.startPtr(), q.endPtr()),
	}

	f, err := buildCQL2(coll, q.Filters)
	if err != nil {
		return nil, nil, nil, err
	}
	if f != nil {
		req.Filter = f
		req.FilterLang = stac.FilterLangCQL2JSON
	}

	return b.client(coll), req, coll, nil
}

func (b *STACBackend) client(coll *config.CollectionConfig) *stac.Client {
	url := b.cfg.BaseURL
	if coll.STAC != nil && coll.STAC.URL != "" {
		url = coll.STAC.URL
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.clients[url]
	if !ok {
		c = stac.NewClient(url, b.cfg.Timeout).
			WithLogger(b.logger).
			WithMaxPages(b.cfg.MaxPages)
		b.clients[url] = c
	}
	return c
}

// buildCQL2 converts filters into a CQL2 expression, AND-ing them together.
func buildCQL2(coll *config.CollectionConfig, filters []Filter) (*filter.Filter, error) {
	if len(filters) == 0 {
		return nil, nil
	}

	args := make([]filter.BooleanExpression, 0, len(filters))
	for _, f := range filters {
		op := filter.Equals
		switch f.Op {
		case OpEq:
		case OpLt:
			op = filter.LessThan
		default:
			return nil, fmt.Errorf("%w: operator %q", ErrUnsupportedFilter, f.Op)
		}

		value, err := scalar(f.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Property, err)
		}

		args = append(args, &filter.Comparison{
			Name:  op,
			Left:  &filter.Property{Name: propertyName(coll, f.Property)},
			Right: value,
		})
	}

	if len(args) == 1 {
		return &filter.Filter{Expression: args[0]}, nil
	}
	return &filter.Filter{Expression: &filter.And{Args: args}}, nil
}

func scalar(v any) (filter.ScalarExpression, error) {
	switch x := v.(type) {
	case string:
		return &filter.String{Value: x}, nil
	case int:
		return &filter.Number{Value: float64(x)}, nil
	case int64:
		return &filter.Number{Value: float64(x)}, nil
	case float64:
		return &filter.Number{Value: x}, nil
	default:
		return nil, fmt.Errorf("%w: value of type %T", ErrUnsupportedFilter, v)
	}
}

// propertyName maps the canonical cloud cover name onto the collection's own.
func propertyName(coll *config.CollectionConfig, property string) string {
	if property == PropCloudCover {
		return coll.CloudCoverProperty()
	}
	return property
}
