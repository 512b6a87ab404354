package availability

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/robert-malhotra/scene-availability/internal/backend"
	"github.com/robert-malhotra/scene-availability/internal/calendar"
	"github.com/robert-malhotra/scene-availability/internal/geo"
)

// OpticalCloudLimit is the cloud cover percentage below which an optical
// image counts towards the seasonal tallies.
const OpticalCloudLimit = 20

// CloudThresholds are the diagnostic cloud cover cut-offs reported up front.
var CloudThresholds = []int{10, 20, 30, 50}

// OpticalYear summarises one year of clear optical acquisitions.
type OpticalYear struct {
	Year           int `json:"year"`
	DrySeasonCount int `json:"dry_season_count"`
	WetSeasonCount int `json:"wet_season_count"`
	Count          int `json:"count"`
}

// Optical reports clear (below OpticalCloudLimit) optical images per month,
// folded into dry season, wet season and calendar-year totals. Every year in
// the observed range gets a record. A month whose query fails counts as zero,
// unless the collection cannot filter on cloud cover at all, which is
// returned as an error. When the area has no images at all the result is nil
// with a nil error.
func (r *Reporter) Optical(ctx context.Context, aoi *geo.Polygon, collection string) ([]OpticalYear, error) {
	r.printf("\nChecking %s's optical data availability\n", collection)

	base := baseQuery(aoi, collection)
	tr, ok, err := r.dateRange(ctx, base)
	if err != nil || !ok {
		return nil, err
	}

	r.printf("\nCloud Coverage Analysis:\n")
	for _, threshold := range CloudThresholds {
		n, err := r.catalog.Count(ctx, base.With(backend.Lt(backend.PropCloudCover, threshold)))
		if unsupported(err) {
			return nil, fmt.Errorf("%s cannot serve the optical report: %w", collection, err)
		}
		if err != nil {
			r.periodFailed(ctx, "optical", "cloud<"+strconv.Itoa(threshold), err)
			r.printf("Images with <%d%% clouds: error - %v\n", threshold, err)
			continue
		}
		r.printf("Images with <%d%% clouds: %d\n", threshold, n)
	}

	r.printf("\nSeasonal Availability (<%d%% clouds):\n", OpticalCloudLimit)
	r.printf("Collecting all images by month\n")

	years := calendar.Years(tr.Start, tr.End)
	counts := make(MonthlyCounts, len(years))
	for _, year := range years {
		for month := 1; month <= 12; month++ {
			w, ok := calendar.MonthWindow(year, month, tr.Start, tr.End)
			if !ok {
				continue
			}

			q := base.Between(w.From, w.Until).With(backend.Lt(backend.PropCloudCover, OpticalCloudLimit))
			n, err := r.catalog.Count(ctx, q)
			if unsupported(err) {
				return nil, fmt.Errorf("%s cannot serve the optical report: %w", collection, err)
			}
			if err != nil {
				r.periodFailed(ctx, "optical", w.String(), err)
				r.printf("Error processing %s: %v\n", w, err)
				counts.Set(year, month, 0)
				continue
			}

			counts.Set(year, month, n)
			if n > 0 {
				kind := "Full"
				if w.Partial {
					kind = "Partial"
				}
				r.printf("   %s month %s: %d images\n", kind, w, n)
			}
		}
	}

	records := AggregateSeasons(years, counts)
	r.printSeasons(records)
	return records, nil
}

func (r *Reporter) printSeasons(records []OpticalYear) {
	dryTotal, wetTotal := 0, 0

	r.printf("\nDry Season (May-Oct):\n")
	for _, rec := range records {
		r.printf("%d: %d clear images\n", rec.Year, rec.DrySeasonCount)
		dryTotal += rec.DrySeasonCount
	}
	r.printf("Total for Dry Season (May-Oct): %d images\n", dryTotal)

	r.printf("\nWet Season (Nov-Apr):\n")
	for _, rec := range records {
		r.printf("%d: %d clear images\n", rec.Year, rec.WetSeasonCount)
		wetTotal += rec.WetSeasonCount
	}
	r.printf("Total for Wet Season (Nov-Apr): %d images\n", wetTotal)

	rule := strings.Repeat("=", 60)
	r.printf("\n%s\nYEARLY SUMMARY (<%d%% clouds)\n%s\n", rule, OpticalCloudLimit, rule)
	r.printf("%-6s %-12s %-12s %-8s\n", "Year", "Dry Season", "Wet Season", "Total")
	r.printf("%s\n", strings.Repeat("-", 40))
	for _, rec := range records {
		r.printf("%-6d %-12d %-12d %-8d\n", rec.Year, rec.DrySeasonCount, rec.WetSeasonCount, rec.Count)
	}
}
