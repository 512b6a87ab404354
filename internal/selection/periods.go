// Package selection picks the baseline, intermediate and current years for a
// change-detection run from yearly radar availability.
package selection

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/robert-malhotra/scene-availability/internal/availability"
)

// GoodYearThreshold is the minimum number of radar images for a year to be
// preferred as an analysis period.
const GoodYearThreshold = 50

// Periods holds the chosen analysis years. Intermediate is nil when only one
// year is available.
type Periods struct {
	Baseline     availability.RadarYear  `json:"baseline"`
	Intermediate *availability.RadarYear `json:"intermediate"`
	Current      availability.RadarYear  `json:"current"`
}

// Selector chooses analysis periods, printing its progress to out.
type Selector struct {
	out    io.Writer
	logger *slog.Logger
}

// NewSelector creates a selector. A nil out discards the text output.
func NewSelector(out io.Writer) *Selector {
	if out == nil {
		out = io.Discard
	}
	return &Selector{out: out, logger: slog.Default()}
}

// WithLogger sets a custom logger for the selector
func (s *Selector) WithLogger(logger *slog.Logger) *Selector {
	s.logger = logger
	return s
}

// Select picks periods from radar. Years with at least GoodYearThreshold
// images are preferred; when fewer than two qualify the two years with the
// most images are used instead. Optical records are accepted for symmetry
// with the reports but do not influence the choice. Select returns nil when
// radar is empty.
func (s *Selector) Select(radar []availability.RadarYear, optical []availability.OpticalYear) *Periods {
	fmt.Fprintf(s.out, "\nSetting up Analysis Periods based on SAR Data Availability\n")

	if len(radar) == 0 {
		fmt.Fprintf(s.out, " No SAR data available for analysis setup\n")
		return nil
	}

	var good []availability.RadarYear
	for _, y := range radar {
		if y.Count >= GoodYearThreshold {
			good = append(good, y)
		}
	}

	if len(good) < 2 {
		fmt.Fprintf(s.out, "Limited data for temporal analysis, using available years\n")
		// TODO: expose whether the relaxed rule was applied so callers can tell the two apart.
		s.logger.Warn("fewer than two years meet the image threshold, using the busiest years",
			slog.Int("threshold", GoodYearThreshold),
			slog.Int("qualifying", len(good)),
			slog.Int("years", len(radar)),
		)

		good = append([]availability.RadarYear(nil), radar...)
		sort.SliceStable(good, func(i, j int) bool {
			return good[i].Count > good[j].Count
		})
		if len(good) > 2 {
			good = good[:2]
		}
	}

	sort.SliceStable(good, func(i, j int) bool {
		return good[i].Year < good[j].Year
	})

	p := &Periods{
		Baseline: good[0],
		Current:  good[len(good)-1],
	}
	if len(good) > 1 {
		intermediate := good[len(good)-2]
		p.Intermediate = &intermediate
	}

	fmt.Fprintf(s.out, "Baseline: %s\n", describe(&p.Baseline))
	fmt.Fprintf(s.out, "Intermediate: %s\n", describe(p.Intermediate))
	fmt.Fprintf(s.out, "Current: %s\n", describe(&p.Current))
	return p
}

// Select runs a Selector that discards its text output.
func Select(radar []availability.RadarYear, optical []availability.OpticalYear) *Periods {
	return NewSelector(nil).Select(radar, optical)
}

func describe(y *availability.RadarYear) string {
	if y == nil {
		return "none"
	}
	return fmt.Sprintf("%d (%d images)", y.Year, y.Count)
}
