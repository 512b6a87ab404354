package asf

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Output formats understood by the ASF search endpoint.
const (
	OutputGeoJSON = "geojson"
	OutputCount   = "count"
)

// SearchParams represents parameters for ASF search queries
type SearchParams struct {
	// Dataset filters
	Dataset  []string // ASF dataset names (e.g., "SENTINEL-1")
	Platform []string // Platform names (e.g., "Sentinel-1A")

	// Spatial filters
	IntersectsWith string // WKT geometry string

	// Temporal filters, both inclusive on the ASF side
	Start *time.Time
	End   *time.Time

	// SAR-specific filters
	BeamMode        []string // Beam modes (e.g., "IW", "EW")
	Polarization    []string // Polarizations (e.g., "VV", "VV+VH")
	FlightDirection string   // "ASCENDING" or "DESCENDING"

	// Processing filters
	ProcessingLevel []string // Processing levels (e.g., "GRD_HD", "SLC")

	MaxResults int
	Output     string // Output format (default: "geojson")
}

// ToQueryString converts SearchParams to a URL query string
func (p *SearchParams) ToQueryString() string {
	return p.ToURLValues().Encode()
}

// ToURLValues converts SearchParams to url.Values for query string building
func (p *SearchParams) ToURLValues() url.Values {
	values := url.Values{}

	for _, d := range p.Dataset {
		values.Add("dataset", d)
	}
	for _, pl := range p.Platform {
		values.Add("platform", pl)
	}

	if p.IntersectsWith != "" {
		values.Set("intersectsWith", p.IntersectsWith)
	}

	if p.Start != nil {
		values.Set("start", formatASFTime(p.Start))
	}
	if p.End != nil {
		values.Set("end", formatASFTime(p.End))
	}

	for _, bm := range p.BeamMode {
		values.Add("beamMode", bm)
	}
	for _, pol := range p.Polarization {
		values.Add("polarization", pol)
	}

	if p.FlightDirection != "" {
		values.Set("flightDirection", p.FlightDirection)
	}

	// Processing level (comma-separated)
	if len(p.ProcessingLevel) > 0 {
		values.Set("processingLevel", strings.Join(p.ProcessingLevel, ","))
	}

	if p.MaxResults > 0 {
		values.Set("maxResults", strconv.Itoa(p.MaxResults))
	}

	if p.Output != "" {
		values.Set("output", p.Output)
	} else {
		values.Set("output", OutputGeoJSON)
	}

	return values
}

// formatASFTime formats a time.Time for ASF API queries
// ASF expects ISO 8601 format: YYYY-MM-DDTHH:MM:SSZ
func formatASFTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
