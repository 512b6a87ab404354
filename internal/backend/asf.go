package backend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robert-malhotra/scene-availability/internal/asf"
	"github.com/robert-malhotra/scene-availability/internal/config"
	"github.com/robert-malhotra/scene-availability/internal/translate"
)

// ASFBackend implements Catalog for the ASF Search API.
type ASFBackend struct {
	client      *asf.Client
	collections *config.CollectionRegistry
	logger      *slog.Logger
}

// NewASFBackend creates a new ASF backend.
func NewASFBackend(client *asf.Client, collections *config.CollectionRegistry, logger *slog.Logger) *ASFBackend {
	return &ASFBackend{
		client:      client,
		collections: collections,
		logger:      logger,
	}
}

// Name returns the backend name.
func (b *ASFBackend) Name() string {
	return "asf"
}

// Count uses the count output, so no granules are transferred.
func (b *ASFBackend) Count(ctx context.Context, q Query) (int, error) {
	params, err := b.toASFParams(q)
	if err != nil {
		return 0, err
	}

	n, err := b.client.Count(ctx, *params)
	if err != nil {
		return 0, fmt.Errorf("ASF count failed: %w", err)
	}
	return n, nil
}

// TimeRange scans granule start times. ASF cannot sort, so every matching
// granule is fetched.
func (b *ASFBackend) TimeRange(ctx context.Context, q Query) (TimeRange, bool, error) {
	features, err := b.search(ctx, q)
	if err != nil {
		return TimeRange{}, false, err
	}

	var tr TimeRange
	found := false
	for i := range features {
		t, err := translate.ParseASFTime(features[i].Properties.StartTime)
		if err != nil {
			b.logger.WarnContext(ctx, "skipping granule with unparseable start time",
				slog.String("file_id", features[i].Properties.FileID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !found || t.Before(tr.Start) {
			tr.Start = t
		}
		if !found || t.After(tr.End) {
			tr.End = t
		}
		found = true
	}

	return tr, found, nil
}

// Aggregate maps property onto the matching ASF granule field.
func (b *ASFBackend) Aggregate(ctx context.Context, q Query, property string) ([]any, error) {
	extract, err := asfProperty(property)
	if err != nil {
		return nil, err
	}

	features, err := b.search(ctx, q)
	if err != nil {
		return nil, err
	}

	values := make([]any, 0, len(features))
	for i := range features {
		v, err := extract(&features[i].Properties)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (b *ASFBackend) search(ctx context.Context, q Query) ([]asf.ASFFeature, error) {
	params, err := b.toASFParams(q)
	if err != nil {
		return nil, err
	}

	resp, err := b.client.Search(ctx, *params)
	if err != nil {
		return nil, fmt.Errorf("ASF search failed: %w", err)
	}
	return resp.Features, nil
}

// toASFParams converts a catalog query to ASF-specific SearchParams.
func (b *ASFBackend) toASFParams(q Query) (*asf.SearchParams, error) {
	coll, err := lookup(b.collections, q.Collection)
	if err != nil {
		return nil, err
	}
	if len(coll.ASFDatasets) == 0 {
		return nil, fmt.Errorf("collection %q has no ASF datasets", q.Collection)
	}

	params := &asf.SearchParams{
		Dataset:         coll.ASFDatasets,
		Platform:        coll.ASFPlatforms,
		ProcessingLevel: coll.ASFProcessingLevels,
		Start:           q.startPtr(),
	}

	// ASF treats end as inclusive at second precision.
	if end := q.endPtr(); end != nil {
		inclusive := end.Add(-time.Second)
		params.End = &inclusive
	}

	if q.AOI != nil {
		wkt, err := q.AOI.WKT()
		if err != nil {
			return nil, err
		}
		params.IntersectsWith = wkt
	}

	for _, f := range q.Filters {
		if err := applyASFFilter(params, f); err != nil {
			return nil, err
		}
	}

	return params, nil
}

func applyASFFilter(params *asf.SearchParams, f Filter) error {
	if f.Op != OpEq {
		return fmt.Errorf("%w: ASF cannot apply %s", ErrUnsupportedFilter, f)
	}

	value, ok := f.Value.(string)
	if !ok || value == "" {
		return fmt.Errorf("%w: ASF %s needs a string value, got %T", ErrUnsupportedFilter, f.Property, f.Value)
	}

	switch f.Property {
	case PropInstrumentMode:
		params.BeamMode = append(params.BeamMode, strings.ToUpper(value))
	case PropPolarizations:
		params.Polarization = append(params.Polarization, strings.ToUpper(value))
	case PropOrbitState:
		params.FlightDirection = strings.ToUpper(value)
	default:
		return fmt.Errorf("%w: ASF cannot apply %s", ErrUnsupportedFilter, f)
	}
	return nil
}

func asfProperty(property string) (func(*asf.ASFProperties) (any, error), error) {
	switch property {
	case PropDatetime:
		return func(p *asf.ASFProperties) (any, error) {
			t, err := translate.ParseASFTime(p.StartTime)
			if err != nil {
				return nil, err
			}
			return translate.FormatSTACTime(t), nil
		}, nil
	case PropInstrumentMode:
		return func(p *asf.ASFProperties) (any, error) { return p.BeamModeType, nil }, nil
	case PropPolarizations:
		return func(p *asf.ASFProperties) (any, error) { return translate.ParsePolarizations(p.Polarization), nil }, nil
	case PropOrbitState:
		return func(p *asf.ASFProperties) (any, error) { return strings.ToLower(p.FlightDirection), nil }, nil
	default:
		return nil, fmt.Errorf("%w: ASF has no %q", ErrUnsupportedProperty, property)
	}
}
