package availability

import (
	"context"
	"fmt"
	"strconv"

	"github.com/robert-malhotra/scene-availability/internal/backend"
	"github.com/robert-malhotra/scene-availability/internal/calendar"
	"github.com/robert-malhotra/scene-availability/internal/geo"
	"github.com/robert-malhotra/scene-availability/internal/translate"
)

// RadarInstrumentMode restricts radar counts to Interferometric Wide swath.
const RadarInstrumentMode = "IW"

// RadarYear summarises one calendar year of radar acquisitions.
type RadarYear struct {
	Year          int      `json:"year"`
	Count         int      `json:"count"`
	Polarizations []string `json:"polarizations"`
	Orbits        []string `json:"orbits"`
}

// Radar reports IW acquisitions per calendar year over aoi. Years without
// images are printed but left out of the result. A year whose queries fail
// is logged and skipped, unless the collection cannot answer radar queries at
// all, which is returned as an error. When the area has no images at all the
// result is nil with a nil error.
func (r *Reporter) Radar(ctx context.Context, aoi *geo.Polygon, collection string) ([]RadarYear, error) {
	r.printf("Checking %s's data availability\n", collection)

	base := baseQuery(aoi, collection)
	tr, ok, err := r.dateRange(ctx, base)
	if err != nil || !ok {
		return nil, err
	}

	r.printf("\nData Availability by Year:\n")

	years := make([]RadarYear, 0)
	for _, year := range calendar.Years(tr.Start, tr.End) {
		w := calendar.YearWindow(year)
		q := base.Between(w.From, w.Until).With(backend.Eq(backend.PropInstrumentMode, RadarInstrumentMode))

		rec, err := r.radarYear(ctx, q, year)
		if unsupported(err) {
			return nil, fmt.Errorf("%s cannot serve the radar report: %w", collection, err)
		}
		if err != nil {
			r.periodFailed(ctx, "radar", strconv.Itoa(year), err)
			r.printf("%d: Error checking - %v\n", year, err)
			continue
		}
		if rec == nil {
			r.printf("%d: No data\n", year)
			continue
		}

		r.printf("%d: %3d images | Polarizations: %v | Orbits: %v\n",
			rec.Year, rec.Count, rec.Polarizations, rec.Orbits)
		years = append(years, *rec)
	}

	return years, nil
}

// radarYear returns nil when the year has no images.
func (r *Reporter) radarYear(ctx context.Context, q backend.Query, year int) (*RadarYear, error) {
	count, err := r.catalog.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	pols, err := r.distinct(ctx, q, backend.PropPolarizations)
	if err != nil {
		return nil, err
	}
	orbits, err := r.distinct(ctx, q, backend.PropOrbitState)
	if err != nil {
		return nil, err
	}

	return &RadarYear{
		Year:          year,
		Count:         count,
		Polarizations: pols,
		Orbits:        orbits,
	}, nil
}

func (r *Reporter) distinct(ctx context.Context, q backend.Query, property string) ([]string, error) {
	values, err := r.catalog.Aggregate(ctx, q, property)
	if err != nil {
		return nil, err
	}
	out, err := translate.DistinctStrings(values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", property, err)
	}
	return out, nil
}
