// Package availability reports how much imagery a catalog holds over an area,
// per year for radar and per season for optical collections.
package availability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/robert-malhotra/scene-availability/internal/backend"
	"github.com/robert-malhotra/scene-availability/internal/calendar"
	"github.com/robert-malhotra/scene-availability/internal/geo"
	"github.com/robert-malhotra/scene-availability/internal/metrics"
)

// Reporter runs availability reports against a catalog. Progress and tables
// are written as text to out; the structured results are returned.
type Reporter struct {
	catalog backend.Catalog
	out     io.Writer
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewReporter creates a reporter writing its text report to out.
func NewReporter(catalog backend.Catalog, out io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	return &Reporter{
		catalog: catalog,
		out:     out,
		logger:  slog.Default(),
	}
}

// WithLogger sets a custom logger for the reporter
func (r *Reporter) WithLogger(logger *slog.Logger) *Reporter {
	r.logger = logger
	return r
}

// WithMetrics counts skipped periods on m.
func (r *Reporter) WithMetrics(m *metrics.Collector) *Reporter {
	r.metrics = m
	return r
}

func (r *Reporter) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// dateRange finds the acquisition span over aoi and prints it. The boolean
// is false, after printing the no-data notice, when the area has no images.
func (r *Reporter) dateRange(ctx context.Context, q backend.Query) (backend.TimeRange, bool, error) {
	tr, ok, err := r.catalog.TimeRange(ctx, q)
	if err != nil {
		return backend.TimeRange{}, false, fmt.Errorf("failed to query acquisition range of %s: %w", q.Collection, err)
	}
	if !ok {
		r.printf("No data found for this area!\n")
		return backend.TimeRange{}, false, nil
	}

	r.printf("Full date range: %s to %s\n", calendar.FormatDate(tr.Start), calendar.FormatDate(tr.End))
	r.printf("Total years available: %.1f years\n", calendar.SpanYears(tr.Start, tr.End))
	return tr, true, nil
}

// unsupported reports whether err means the collection can never answer the
// query, as opposed to a single period failing.
func unsupported(err error) bool {
	return errors.Is(err, backend.ErrUnsupportedFilter) || errors.Is(err, backend.ErrUnsupportedProperty)
}

func (r *Reporter) periodFailed(ctx context.Context, report, period string, err error) {
	r.logger.WarnContext(ctx, "skipping period after catalog failure",
		slog.String("report", report),
		slog.String("period", period),
		slog.String("error", err.Error()),
	)
	if r.metrics != nil {
		r.metrics.RecordPeriodFailure(report)
	}
}

func baseQuery(aoi *geo.Polygon, collection string) backend.Query {
	return backend.Query{Collection: collection, AOI: aoi}
}
