package asf

import "encoding/json"

// ASFGeoJSONResponse represents ASF's GeoJSON FeatureCollection response
type ASFGeoJSONResponse struct {
	Type     string       `json:"type"` // "FeatureCollection"
	Features []ASFFeature `json:"features"`
}

// ASFFeature represents a single ASF search result feature
type ASFFeature struct {
	Type       string        `json:"type"` // "Feature"
	Geometry   *Geometry     `json:"geometry"`
	Properties ASFProperties `json:"properties"`
}

// Geometry represents a GeoJSON geometry
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ASFProperties holds the granule metadata the availability reports read.
type ASFProperties struct {
	SceneName string `json:"sceneName"`
	FileID    string `json:"fileID"`
	Platform  string `json:"platform"`

	// SAR-specific parameters
	BeamModeType string `json:"beamModeType"`
	Polarization string `json:"polarization"` // e.g. "VV+VH"

	// Orbital parameters
	FlightDirection string `json:"flightDirection"`
	PathNumber      *int   `json:"pathNumber"`

	ProcessingLevel string `json:"processingLevel"`

	StartTime string `json:"startTime"`
	StopTime  string `json:"stopTime"`
}
