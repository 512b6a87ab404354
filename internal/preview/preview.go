// Package preview describes an RGB median composite of an area for display.
// Compositing and rendering are left to the map client; the descriptor only
// carries what it needs to ask for.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/robert-malhotra/scene-availability/internal/backend"
	"github.com/robert-malhotra/scene-availability/internal/calendar"
	"github.com/robert-malhotra/scene-availability/internal/config"
	"github.com/robert-malhotra/scene-availability/internal/geo"
)

// Stretch applied to reflectance values when displaying the composite.
const (
	VisMin = 0
	VisMax = 2000

	// ReducerMedian is the only supported compositing reducer.
	ReducerMedian = "median"
)

// ErrNoRGBBands is returned for collections without red, green and blue bands.
var ErrNoRGBBands = errors.New("collection has no RGB bands")

// Map is a map descriptor: where to center, how far to zoom and which layers
// to draw.
type Map struct {
	Center Center  `json:"center"`
	Zoom   int     `json:"zoom"`
	Layers []Layer `json:"layers"`
}

// Center is a (lon, lat) position.
type Center struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Layer is a composite image layer with its display parameters.
type Layer struct {
	Name       string    `json:"name"`
	Visible    bool      `json:"visible"`
	Vis        Vis       `json:"vis"`
	Composite  Composite `json:"composite"`
	SceneCount int       `json:"scene_count"`
}

// Vis holds the display stretch and band order.
type Vis struct {
	Min   float64  `json:"min"`
	Max   float64  `json:"max"`
	Bands []string `json:"bands"`
}

// Composite is the request a renderer runs: scenes of Collection over Clip
// between Start (inclusive) and End (exclusive) with cloud cover below
// MaxCloud, reduced per pixel.
type Composite struct {
	Collection string       `json:"collection"`
	Reducer    string       `json:"reducer"`
	Bands      []string     `json:"bands"`
	Start      string       `json:"start"`
	End        string       `json:"end"`
	MaxCloud   float64      `json:"max_cloud"`
	Clip       *geo.Polygon `json:"clip"`
}

// Previewer builds map descriptors against a catalog.
type Previewer struct {
	catalog  backend.Catalog
	registry *config.CollectionRegistry
	out      io.Writer
	logger   *slog.Logger
}

// NewPreviewer creates a previewer writing its summary to out.
func NewPreviewer(catalog backend.Catalog, registry *config.CollectionRegistry, out io.Writer) *Previewer {
	if out == nil {
		out = io.Discard
	}
	return &Previewer{
		catalog:  catalog,
		registry: registry,
		out:      out,
		logger:   slog.Default(),
	}
}

// WithLogger sets a custom logger for the previewer
func (p *Previewer) WithLogger(logger *slog.Logger) *Previewer {
	p.logger = logger
	return p
}

// Preview describes a median RGB composite of collection over aoi for dates,
// keeping scenes with cloud cover below maxCloud. The catalog is asked how
// many scenes feed the composite; its errors are returned unchanged.
func (p *Previewer) Preview(ctx context.Context, aoi *geo.Polygon, collection string, dates calendar.DateRange, maxCloud float64, zoom int) (*Map, error) {
	coll := p.registry.Get(collection)
	if coll == nil {
		return nil, fmt.Errorf("%w: %s", backend.ErrUnknownCollection, collection)
	}
	if len(coll.RGBBands) != 3 {
		return nil, fmt.Errorf("%w: %s", ErrNoRGBBands, collection)
	}

	start, end, err := dates.Times()
	if err != nil {
		return nil, err
	}

	lon, lat, err := aoi.Centroid()
	if err != nil {
		return nil, err
	}

	q := backend.Query{Collection: collection, AOI: aoi}.
		Between(start, end).
		With(backend.Lt(backend.PropCloudCover, maxCloud))

	scenes, err := p.catalog.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	p.logger.DebugContext(ctx, "preview composite",
		slog.String("collection", collection),
		slog.String("dates", dates.String()),
		slog.Int("scenes", scenes),
	)

	bands := append([]string(nil), coll.RGBBands...)
	m := &Map{
		Center: Center{Lon: lon, Lat: lat},
		Zoom:   zoom,
		Layers: []Layer{{
			Name:    "Satellite Image from " + dates.Start + " to " + dates.End,
			Visible: true,
			Vis: Vis{
				Min:   VisMin,
				Max:   VisMax,
				Bands: bands,
			},
			Composite: Composite{
				Collection: collection,
				Reducer:    ReducerMedian,
				Bands:      bands,
				Start:      dates.Start,
				End:        dates.End,
				MaxCloud:   maxCloud,
				Clip:       aoi,
			},
			SceneCount: scenes,
		}},
	}

	fmt.Fprintf(p.out, "\n Study area Preview\n")
	fmt.Fprintf(p.out, "\n Study area coordinates: %s\n", aoi)
	fmt.Fprintf(p.out, "\n Study area picture date : %s\n", dates)
	fmt.Fprintf(p.out, "\n Scenes in composite: %d\n", scenes)

	return m, nil
}
