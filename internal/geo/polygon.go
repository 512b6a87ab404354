// Package geo models the area of interest handed to the imagery catalogs.
package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
	"github.com/twpayne/go-geom/xy"
)

// ErrInvalidPolygon is returned when coordinates do not form a usable ring.
var ErrInvalidPolygon = errors.New("invalid polygon")

// Polygon is a single closed ring of (longitude, latitude) pairs in WGS84.
type Polygon struct {
	g *geom.Polygon
}

// NewPolygon builds a polygon from (lon, lat) pairs. An open ring is closed by
// repeating the first vertex.
func NewPolygon(coords [][]float64) (*Polygon, error) {
	ring := make([]geom.Coord, 0, len(coords)+1)
	for i, c := range coords {
		if len(c) != 2 {
			return nil, fmt.Errorf("%w: vertex %d has %d values, want 2", ErrInvalidPolygon, i, len(c))
		}
		lon, lat := c[0], c[1]
		if lon < -180 || lon > 180 {
			return nil, fmt.Errorf("%w: vertex %d longitude %v out of range", ErrInvalidPolygon, i, lon)
		}
		if lat < -90 || lat > 90 {
			return nil, fmt.Errorf("%w: vertex %d latitude %v out of range", ErrInvalidPolygon, i, lat)
		}
		ring = append(ring, geom.Coord{lon, lat})
	}

	if len(ring) > 0 && !ring[0].Equal(geom.XY, ring[len(ring)-1]) {
		ring = append(ring, ring[0])
	}
	if distinct(ring) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 distinct vertices", ErrInvalidPolygon)
	}

	g, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolygon, err)
	}
	return &Polygon{g: g}, nil
}

// Parse reads a polygon from JSON. It accepts a bare array of [lon, lat]
// pairs or a GeoJSON Polygon geometry (only its exterior ring is used).
func Parse(data []byte) (*Polygon, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidPolygon)
	}

	if data[0] == '[' {
		var coords [][]float64
		if err := json.Unmarshal(data, &coords); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPolygon, err)
		}
		return NewPolygon(coords)
	}

	var t geom.T
	if err := geojson.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolygon, err)
	}
	p, ok := t.(*geom.Polygon)
	if !ok {
		return nil, fmt.Errorf("%w: geometry is %T, want Polygon", ErrInvalidPolygon, t)
	}
	if p.NumLinearRings() == 0 {
		return nil, fmt.Errorf("%w: polygon has no rings", ErrInvalidPolygon)
	}

	exterior := p.LinearRing(0).Coords()
	coords := make([][]float64, 0, len(exterior))
	for _, c := range exterior {
		coords = append(coords, []float64{c.X(), c.Y()})
	}
	return NewPolygon(coords)
}

// Coordinates returns the closed ring as (lon, lat) pairs.
func (p *Polygon) Coordinates() [][]float64 {
	ring := p.g.LinearRing(0).Coords()
	out := make([][]float64, 0, len(ring))
	for _, c := range ring {
		out = append(out, []float64{c.X(), c.Y()})
	}
	return out
}

// Centroid returns the planar area centroid as (lon, lat).
func (p *Polygon) Centroid() (float64, float64, error) {
	c, err := xy.Centroid(p.g)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to compute centroid: %w", err)
	}
	return c.X(), c.Y(), nil
}

// BBox returns [west, south, east, north].
func (p *Polygon) BBox() []float64 {
	b := p.g.Bounds()
	return []float64{b.Min(0), b.Min(1), b.Max(0), b.Max(1)}
}

// WKT encodes the polygon as Well-Known Text, as expected by ASF's
// intersectsWith parameter.
func (p *Polygon) WKT() (string, error) {
	s, err := wkt.Marshal(p.g)
	if err != nil {
		return "", fmt.Errorf("failed to marshal polygon to WKT: %w", err)
	}
	return s, nil
}

// MarshalJSON encodes the polygon as a GeoJSON geometry.
func (p *Polygon) MarshalJSON() ([]byte, error) {
	data, err := geojson.Marshal(p.g)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal polygon to GeoJSON: %w", err)
	}
	return data, nil
}

// UnmarshalJSON accepts the same inputs as Parse.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// String lists the vertices, e.g. "[[10 20] [11 20] ...]".
func (p *Polygon) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range p.Coordinates() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "[%v %v]", c[0], c[1])
	}
	b.WriteByte(']')
	return b.String()
}

func distinct(ring []geom.Coord) int {
	seen := make(map[[2]float64]struct{}, len(ring))
	for _, c := range ring {
		seen[[2]float64{c.X(), c.Y()}] = struct{}{}
	}
	return len(seen)
}
