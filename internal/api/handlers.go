package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/planetlabs/go-stac"

	"github.com/robert-malhotra/scene-availability/internal/availability"
	"github.com/robert-malhotra/scene-availability/internal/backend"
	"github.com/robert-malhotra/scene-availability/internal/calendar"
	"github.com/robert-malhotra/scene-availability/internal/config"
	"github.com/robert-malhotra/scene-availability/internal/geo"
	"github.com/robert-malhotra/scene-availability/internal/metrics"
	"github.com/robert-malhotra/scene-availability/internal/preview"
	"github.com/robert-malhotra/scene-availability/internal/selection"
	intstac "github.com/robert-malhotra/scene-availability/internal/stac"
)

// Preview defaults applied when a request leaves the field out.
const (
	DefaultPreviewCloud = 20
	DefaultPreviewZoom  = 10

	maxRequestBody = 1 << 20
)

// STACVersion is reported on the collections listing.
const STACVersion = "1.0.0"

// Handlers contains all HTTP handlers for the survey API.
type Handlers struct {
	cfg         *config.Config
	catalog     backend.Catalog
	collections *config.CollectionRegistry
	metrics     *metrics.Collector
	logger      *slog.Logger
}

// NewHandlers creates a new Handlers instance with the given dependencies.
func NewHandlers(
	cfg *config.Config,
	catalog backend.Catalog,
	collections *config.CollectionRegistry,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		cfg:         cfg,
		catalog:     catalog,
		collections: collections,
		logger:      logger,
	}
}

// WithMetrics enables request metrics and the /metrics endpoint.
func (h *Handlers) WithMetrics(m *metrics.Collector) *Handlers {
	h.metrics = m
	return h
}

// PreviewRequest is the body of POST /preview.
type PreviewRequest struct {
	AOI        *geo.Polygon `json:"aoi"`
	Collection string       `json:"collection"`
	Start      string       `json:"start"`
	End        string       `json:"end"`
	// Cloud defaults to DefaultPreviewCloud when omitted; 0 is a valid limit.
	Cloud *float64 `json:"cloud"`
	Zoom  int      `json:"zoom"`
	// InclusiveEnd extends the window to cover the End day itself.
	InclusiveEnd bool `json:"inclusive_end"`
}

// AvailabilityRequest is the body of the availability endpoints.
type AvailabilityRequest struct {
	AOI        *geo.Polygon `json:"aoi"`
	Collection string       `json:"collection"`
}

// PeriodsRequest is the body of POST /periods.
type PeriodsRequest struct {
	AOI               *geo.Polygon `json:"aoi"`
	RadarCollection   string       `json:"radar_collection"`
	OpticalCollection string       `json:"optical_collection"`
}

// PeriodsResponse carries the chosen periods with the reports they came from.
// Periods is null when the area has no radar data.
type PeriodsResponse struct {
	Periods *selection.Periods         `json:"periods"`
	Radar   []availability.RadarYear   `json:"radar"`
	Optical []availability.OpticalYear `json:"optical"`
}

// CollectionsResponse lists the registered collections.
type CollectionsResponse struct {
	Collections []*stac.Collection `json:"collections"`
	Links       []*stac.Link       `json:"links"`
}

// Health returns the health status of the service.
// GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Preview describes an RGB composite of an area.
// POST /preview
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.AOI == nil {
		WriteInvalidParameter(w, "aoi is required")
		return
	}
	if req.Collection == "" {
		req.Collection = h.cfg.Survey.OpticalCollection
	}
	cloud := float64(DefaultPreviewCloud)
	if req.Cloud != nil {
		cloud = *req.Cloud
	}
	if cloud < 0 || cloud > 100 {
		WriteInvalidParameter(w, "cloud must be between 0 and 100")
		return
	}
	if req.Zoom == 0 {
		req.Zoom = DefaultPreviewZoom
	}

	dates, err := calendar.NewDateRange(req.Start, req.End)
	if err != nil {
		WriteInvalidParameter(w, err.Error())
		return
	}
	if req.InclusiveEnd {
		dates = dates.IncludeEnd()
	}

	m, err := preview.NewPreviewer(h.catalog, h.collections, nil).
		WithLogger(h.logger).
		Preview(r.Context(), req.AOI, req.Collection, dates, cloud, req.Zoom)
	if err != nil {
		h.failed(r, "preview", err)
		writeSurveyError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, m)
}

// RadarAvailability reports yearly radar availability.
// POST /availability/radar
func (h *Handlers) RadarAvailability(w http.ResponseWriter, r *http.Request) {
	req, ok := h.availabilityRequest(w, r, h.cfg.Survey.RadarCollection)
	if !ok {
		return
	}

	years, err := h.reporter().Radar(r.Context(), req.AOI, req.Collection)
	if err != nil {
		h.failed(r, "radar", err)
		writeSurveyError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, years)
}

// OpticalAvailability reports seasonal optical availability.
// POST /availability/optical
func (h *Handlers) OpticalAvailability(w http.ResponseWriter, r *http.Request) {
	req, ok := h.availabilityRequest(w, r, h.cfg.Survey.OpticalCollection)
	if !ok {
		return
	}

	years, err := h.reporter().Optical(r.Context(), req.AOI, req.Collection)
	if err != nil {
		h.failed(r, "optical", err)
		writeSurveyError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, years)
}

// Periods runs both reports and picks the analysis periods.
// POST /periods
func (h *Handlers) Periods(w http.ResponseWriter, r *http.Request) {
	var req PeriodsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.AOI == nil {
		WriteInvalidParameter(w, "aoi is required")
		return
	}
	if req.RadarCollection == "" {
		req.RadarCollection = h.cfg.Survey.RadarCollection
	}
	if req.OpticalCollection == "" {
		req.OpticalCollection = h.cfg.Survey.OpticalCollection
	}

	rep := h.reporter()
	radar, err := rep.Radar(r.Context(), req.AOI, req.RadarCollection)
	if err != nil {
		h.failed(r, "periods", err)
		writeSurveyError(w, err)
		return
	}
	optical, err := rep.Optical(r.Context(), req.AOI, req.OpticalCollection)
	if err != nil {
		h.failed(r, "periods", err)
		writeSurveyError(w, err)
		return
	}

	periods := selection.NewSelector(nil).WithLogger(h.logger).Select(radar, optical)

	WriteJSON(w, http.StatusOK, PeriodsResponse{
		Periods: periods,
		Radar:   radar,
		Optical: optical,
	})
}

// Collections returns the list of all registered collections.
// GET /collections
func (h *Handlers) Collections(w http.ResponseWriter, r *http.Request) {
	baseURL := requestBaseURL(r)

	configs := h.collections.All()
	collections := make([]*stac.Collection, 0, len(configs))
	for _, cfg := range configs {
		collections = append(collections, buildSTACCollection(cfg, baseURL))
	}

	WriteJSON(w, http.StatusOK, CollectionsResponse{
		Collections: collections,
		Links: []*stac.Link{
			{Rel: "self", Href: baseURL + "/collections", Type: "application/json"},
		},
	})
}

func (h *Handlers) reporter() *availability.Reporter {
	return availability.NewReporter(h.catalog, nil).
		WithLogger(h.logger).
		WithMetrics(h.metrics)
}

func (h *Handlers) availabilityRequest(w http.ResponseWriter, r *http.Request, defaultCollection string) (AvailabilityRequest, bool) {
	var req AvailabilityRequest
	if !h.decode(w, r, &req) {
		return req, false
	}
	if req.AOI == nil {
		WriteInvalidParameter(w, "aoi is required")
		return req, false
	}
	if req.Collection == "" {
		req.Collection = defaultCollection
	}
	return req, true
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, geo.ErrInvalidPolygon) {
			WriteInvalidParameter(w, err.Error())
			return false
		}
		WriteBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (h *Handlers) failed(r *http.Request, op string, err error) {
	h.logger.ErrorContext(r.Context(), "survey request failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// buildSTACCollection converts a CollectionConfig to a STAC Collection.
func buildSTACCollection(cfg *config.CollectionConfig, baseURL string) *stac.Collection {
	collection := intstac.NewCollection(cfg.ID, cfg.Title, cfg.Description, cfg.License, STACVersion)

	if len(cfg.Providers) > 0 {
		collection.Providers = make([]*stac.Provider, len(cfg.Providers))
		for i, p := range cfg.Providers {
			collection.Providers[i] = &stac.Provider{
				Name:        p.Name,
				Description: p.Description,
				Roles:       p.Roles,
				Url:         p.URL,
			}
		}
	}

	collection.Extent = &stac.Extent{
		Spatial: &stac.SpatialExtent{
			Bbox: cfg.Extent.Spatial.BBox,
		},
		Temporal: &stac.TemporalExtent{
			Interval: cfg.Extent.Temporal.Interval,
		},
	}

	for k, v := range cfg.Summaries {
		collection.Summaries[k] = v
	}
	collection.Summaries["backend"] = []string{string(cfg.Backend)}
	if len(cfg.RGBBands) > 0 {
		collection.Summaries["rgb_bands"] = cfg.RGBBands
	}

	collection.Links = append(collection.Links,
		&stac.Link{
			Rel:  "self",
			Href: baseURL + "/collections",
			Type: "application/json",
		},
	)
	if cfg.STAC != nil && cfg.STAC.URL != "" {
		collection.Links = append(collection.Links, &stac.Link{
			Rel:   "via",
			Href:  fmt.Sprintf("%s/collections/%s", cfg.STAC.URL, cfg.RemoteID()),
			Type:  "application/json",
			Title: "Upstream collection",
		})
	}

	return collection
}

// requestBaseURL is the scheme and host the client used to reach us.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
