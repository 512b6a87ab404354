package backend

import (
	"log/slog"

	"github.com/robert-malhotra/scene-availability/internal/asf"
	"github.com/robert-malhotra/scene-availability/internal/config"
	"github.com/robert-malhotra/scene-availability/internal/metrics"
)

// Open builds the catalog for cfg: an ASF and a STAC backend behind a Router,
// each instrumented with m when it is non-nil.
func Open(cfg *config.Config, collections *config.CollectionRegistry, logger *slog.Logger, m *metrics.Collector) *Router {
	asfClient := asf.NewClient(cfg.ASF.BaseURL, cfg.ASF.Timeout).WithLogger(logger)

	catalogs := map[config.BackendType]Catalog{
		config.BackendASF:  Instrument(NewASFBackend(asfClient, collections, logger), m),
		config.BackendSTAC: Instrument(NewSTACBackend(collections, cfg.STAC, logger), m),
	}

	logger.Debug("catalog backends ready",
		slog.String("asf_url", cfg.ASF.BaseURL),
		slog.String("stac_url", cfg.STAC.BaseURL),
		slog.Int("collections", collections.Count()),
	)
	return NewRouter(collections, catalogs)
}
