package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/scene-availability/internal/backend"
	"github.com/robert-malhotra/scene-availability/internal/config"
	"github.com/robert-malhotra/scene-availability/internal/geo"
)

// openCatalog builds the catalog the commands query. Tests replace it.
var openCatalog = func(cfg *config.Config, collections *config.CollectionRegistry, logger *slog.Logger) backend.Catalog {
	return backend.Open(cfg, collections, logger, nil)
}

type rootOptions struct {
	logLevel  string
	logFormat string
}

// env is what every survey command needs.
type env struct {
	cfg         *config.Config
	collections *config.CollectionRegistry
	catalog     backend.Catalog
	logger      *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Survey satellite imagery availability over an area of interest",
		Long: `survey queries radar (ASF) and optical (STAC) catalogs for an area of
interest, reports how many scenes exist per year and per season, describes a
median RGB preview composite, and picks baseline, intermediate and current
years for change detection. "survey serve" exposes the same reports over HTTP.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: text or json (overrides LOG_FORMAT)")

	cmd.AddCommand(
		newPreviewCmd(opts),
		newRadarCmd(opts),
		newOpticalCmd(opts),
		newPeriodsCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// load reads the configuration, applies flag overrides and opens the catalog.
// Logs go to stderr so report output on stdout stays clean.
func (o *rootOptions) load() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := setupLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	collections, err := config.LoadRegistry(cfg.Survey.CollectionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}
	logger.Debug("loaded collections", "count", collections.Count())

	return &env{
		cfg:         cfg,
		collections: collections,
		catalog:     openCatalog(cfg, collections, logger),
		logger:      logger,
	}, nil
}

func setupLogger(w io.Writer, level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// loadAOI reads a polygon from path, or from stdin when path is "-".
func loadAOI(cmd *cobra.Command, path string) (*geo.Polygon, error) {
	if path == "" {
		return nil, fmt.Errorf("--aoi is required")
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read area of interest: %w", err)
	}

	aoi, err := geo.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse area of interest %s: %w", path, err)
	}
	return aoi, nil
}
