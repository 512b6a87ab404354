package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/scene-availability/internal/availability"
	"github.com/robert-malhotra/scene-availability/internal/calendar"
	"github.com/robert-malhotra/scene-availability/internal/preview"
	"github.com/robert-malhotra/scene-availability/internal/selection"
)

// reportOptions are the flags shared by the report commands. With asJSON the
// text report is suppressed and the result is printed as JSON instead.
type reportOptions struct {
	aoi        string
	collection string
	asJSON     bool
}

func (o *reportOptions) bind(cmd *cobra.Command, collectionHelp string) {
	cmd.Flags().StringVar(&o.aoi, "aoi", "", "area of interest: JSON [lon, lat] pairs or a GeoJSON Polygon file (- for stdin)")
	cmd.Flags().StringVar(&o.collection, "collection", "", collectionHelp)
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "print the result as JSON instead of the text report")
}

// text is where the human-readable report goes.
func (o *reportOptions) text(cmd *cobra.Command) io.Writer {
	if o.asJSON {
		return io.Discard
	}
	return cmd.OutOrStdout()
}

func (o *reportOptions) result(cmd *cobra.Command, v any) error {
	if !o.asJSON {
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newPreviewCmd(root *rootOptions) *cobra.Command {
	var (
		opts         reportOptions
		start, end   string
		cloud        float64
		zoom         int
		inclusiveEnd bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Describe a median RGB composite of the area for a date window",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load()
			if err != nil {
				return err
			}
			aoi, err := loadAOI(cmd, opts.aoi)
			if err != nil {
				return err
			}
			dates, err := calendar.NewDateRange(start, end)
			if err != nil {
				return err
			}
			if inclusiveEnd {
				dates = dates.IncludeEnd()
			}
			collection := opts.collection
			if collection == "" {
				collection = e.cfg.Survey.OpticalCollection
			}

			m, err := preview.NewPreviewer(e.catalog, e.collections, opts.text(cmd)).
				WithLogger(e.logger).
				Preview(cmd.Context(), aoi, collection, dates, cloud, zoom)
			if err != nil {
				return err
			}
			return opts.result(cmd, m)
		},
	}

	opts.bind(cmd, "optical collection ID (default SURVEY_OPTICAL_COLLECTION)")
	cmd.Flags().StringVar(&start, "start", "", "first day of the window, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "day after the last day of the window, YYYY-MM-DD")
	cmd.Flags().Float64Var(&cloud, "cloud", 20, "maximum cloud cover percentage")
	cmd.Flags().IntVar(&zoom, "zoom", 10, "map zoom level")
	cmd.Flags().BoolVar(&inclusiveEnd, "inclusive-end", false, "treat --end as the last day of the window instead of the day after")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newRadarCmd(root *rootOptions) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "radar",
		Short: "Report yearly radar (IW) acquisitions over the area",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load()
			if err != nil {
				return err
			}
			aoi, err := loadAOI(cmd, opts.aoi)
			if err != nil {
				return err
			}
			collection := opts.collection
			if collection == "" {
				collection = e.cfg.Survey.RadarCollection
			}

			years, err := availability.NewReporter(e.catalog, opts.text(cmd)).
				WithLogger(e.logger).
				Radar(cmd.Context(), aoi, collection)
			if err != nil {
				return err
			}
			return opts.result(cmd, years)
		},
	}

	opts.bind(cmd, "radar collection ID (default SURVEY_RADAR_COLLECTION)")
	return cmd
}

func newOpticalCmd(root *rootOptions) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "optical",
		Short: "Report clear optical acquisitions per season and year over the area",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load()
			if err != nil {
				return err
			}
			aoi, err := loadAOI(cmd, opts.aoi)
			if err != nil {
				return err
			}
			collection := opts.collection
			if collection == "" {
				collection = e.cfg.Survey.OpticalCollection
			}

			years, err := availability.NewReporter(e.catalog, opts.text(cmd)).
				WithLogger(e.logger).
				Optical(cmd.Context(), aoi, collection)
			if err != nil {
				return err
			}
			return opts.result(cmd, years)
		},
	}

	opts.bind(cmd, "optical collection ID (default SURVEY_OPTICAL_COLLECTION)")
	return cmd
}

func newPeriodsCmd(root *rootOptions) *cobra.Command {
	var (
		opts              reportOptions
		radarCollection   string
		opticalCollection string
	)

	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Run both reports and pick baseline, intermediate and current years",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load()
			if err != nil {
				return err
			}
			aoi, err := loadAOI(cmd, opts.aoi)
			if err != nil {
				return err
			}
			if radarCollection == "" {
				radarCollection = e.cfg.Survey.RadarCollection
			}
			if opticalCollection == "" {
				opticalCollection = e.cfg.Survey.OpticalCollection
			}

			out := opts.text(cmd)
			rep := availability.NewReporter(e.catalog, out).WithLogger(e.logger)
			radar, err := rep.Radar(cmd.Context(), aoi, radarCollection)
			if err != nil {
				return err
			}
			optical, err := rep.Optical(cmd.Context(), aoi, opticalCollection)
			if err != nil {
				return err
			}

			periods := selection.NewSelector(out).WithLogger(e.logger).Select(radar, optical)
			return opts.result(cmd, periods)
		},
	}

	cmd.Flags().StringVar(&opts.aoi, "aoi", "", "area of interest: JSON [lon, lat] pairs or a GeoJSON Polygon file (- for stdin)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the chosen periods as JSON instead of the text report")
	cmd.Flags().StringVar(&radarCollection, "radar-collection", "", "radar collection ID (default SURVEY_RADAR_COLLECTION)")
	cmd.Flags().StringVar(&opticalCollection, "optical-collection", "", "optical collection ID (default SURVEY_OPTICAL_COLLECTION)")
	return cmd
}
