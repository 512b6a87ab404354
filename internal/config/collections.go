package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BackendType selects which catalog serves a collection.
type BackendType string

const (
	BackendASF  BackendType = "asf"
	BackendSTAC BackendType = "stac"
)

// DefaultCloudProperty is the item property holding cloud cover percentage.
const DefaultCloudProperty = "eo:cloud_cover"

// CollectionConfig describes an imagery collection and how to reach it.
// Built-in collections can be replaced by JSON files in the collections
// directory.
type CollectionConfig struct {
	ID                  string         `json:"id"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	Backend             BackendType    `json:"backend"`
	ASFDatasets         []string       `json:"asf_datasets,omitempty"`
	ASFPlatforms        []string       `json:"asf_platforms,omitempty"`
	ASFProcessingLevels []string       `json:"asf_processing_levels,omitempty"`
	STAC                *STACMapping   `json:"stac,omitempty"`
	CloudProperty       string         `json:"cloud_property,omitempty"`
	RGBBands            []string       `json:"rgb_bands,omitempty"`
	License             string         `json:"license"`
	Providers           []Provider     `json:"providers,omitempty"`
	Extent              Extent         `json:"extent"`
	Summaries           map[string]any `json:"summaries,omitempty"`
}

// STACMapping points a collection at a remote STAC API.
type STACMapping struct {
	// URL is the API root; empty means the configured STAC_BASE_URL.
	URL string `json:"url,omitempty"`
	// Collection is the remote collection ID when it differs from ours.
	Collection string `json:"collection,omitempty"`
}

// Provider represents a data provider in a STAC collection.
type Provider struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Extent defines the spatial and temporal extent of a collection.
type Extent struct {
	Spatial  SpatialExtent  `json:"spatial"`
	Temporal TemporalExtent `json:"temporal"`
}

// SpatialExtent defines the bounding boxes for a collection.
type SpatialExtent struct {
	BBox [][]float64 `json:"bbox"`
}

// TemporalExtent defines the time intervals for a collection.
type TemporalExtent struct {
	Interval [][]any `json:"interval"`
}

// RemoteID returns the collection ID to send to the STAC API.
func (c *CollectionConfig) RemoteID() string {
	if c.STAC != nil && c.STAC.Collection != "" {
		return c.STAC.Collection
	}
	return c.ID
}

// CloudCoverProperty returns the property cloud filters apply to.
func (c *CollectionConfig) CloudCoverProperty() string {
	if c.CloudProperty != "" {
		return c.CloudProperty
	}
	return DefaultCloudProperty
}

// CollectionRegistry holds all loaded collection configurations indexed by ID.
type CollectionRegistry struct {
	collections map[string]*CollectionConfig
}

// NewCollectionRegistry creates a new empty collection registry.
func NewCollectionRegistry() *CollectionRegistry {
	return &CollectionRegistry{
		collections: make(map[string]*CollectionConfig),
	}
}

// DefaultCollections returns a registry holding the built-in Sentinel-1 and
// Sentinel-2 L2A collections.
func DefaultCollections() *CollectionRegistry {
	r := NewCollectionRegistry()
	for _, c := range builtinCollections() {
		r.Put(c)
	}
	return r
}

func builtinCollections() []*CollectionConfig {
	global := SpatialExtent{BBox: [][]float64{{-180, -90, 180, 90}}}

	return []*CollectionConfig{
		{
			ID:                  "sentinel-1",
			Title:               "Sentinel-1 GRD",
			Description:         "Sentinel-1 C-band SAR ground range detected scenes from the ASF archive",
			Backend:             BackendASF,
			ASFDatasets:         []string{"SENTINEL-1"},
			ASFProcessingLevels: []string{"GRD_HD"},
			License:             "proprietary",
			Providers: []Provider{
				{Name: "ESA", Roles: []string{"producer", "licensor"}, URL: "https://sentinel.esa.int"},
				{Name: "ASF DAAC", Roles: []string{"host"}, URL: "https://asf.alaska.edu"},
			},
			Extent: Extent{
				Spatial:  global,
				Temporal: TemporalExtent{Interval: [][]any{{"2014-04-03T00:00:00Z", nil}}},
			},
		},
		{
			ID:            "sentinel-2-l2a",
			Title:         "Sentinel-2 Level-2A",
			Description:   "Sentinel-2 multispectral surface reflectance scenes",
			Backend:       BackendSTAC,
			STAC:          &STACMapping{URL: "https://planetarycomputer.microsoft.com/api/stac/v1"},
			CloudProperty: DefaultCloudProperty,
			RGBBands:      []string{"B04", "B03", "B02"},
			License:       "proprietary",
			Providers: []Provider{
				{Name: "ESA", Roles: []string{"producer", "licensor"}, URL: "https://sentinel.esa.int"},
				{Name: "Microsoft", Roles: []string{"host"}, URL: "https://planetarycomputer.microsoft.com"},
			},
			Extent: Extent{
				Spatial:  global,
				Temporal: TemporalExtent{Interval: [][]any{{"2015-06-27T00:00:00Z", nil}}},
			},
		},
	}
}

// LoadRegistry returns the built-in collections, overlaid with any JSON
// definitions in dir. An empty dir yields the built-ins alone.
func LoadRegistry(dir string) (*CollectionRegistry, error) {
	registry := DefaultCollections()
	if dir == "" {
		return registry, nil
	}

	loaded, err := LoadCollections(dir)
	if err != nil {
		return nil, err
	}
	for _, c := range loaded.All() {
		registry.Put(c)
	}
	return registry, nil
}

// LoadCollections loads collection definitions from JSON files in the specified directory.
// Only files with a .json extension are processed.
func LoadCollections(collectionsDir string) (*CollectionRegistry, error) {
	registry := NewCollectionRegistry()

	info, err := os.Stat(collectionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to access collections directory %q: %w", collectionsDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("collections path %q is not a directory", collectionsDir)
	}

	entries, err := os.ReadDir(collectionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read collections directory %q: %w", collectionsDir, err)
	}

	loadedCount := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		filename := entry.Name()
		if !strings.HasSuffix(strings.ToLower(filename), ".json") {
			continue
		}

		filePath := filepath.Join(collectionsDir, filename)
		collection, err := loadCollectionFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load collection from %q: %w", filePath, err)
		}

		if err := registry.Add(collection); err != nil {
			return nil, fmt.Errorf("failed to add collection from %q: %w", filePath, err)
		}

		loadedCount++
	}

	if loadedCount == 0 {
		return nil, fmt.Errorf("no collection files found in %q", collectionsDir)
	}

	return registry, nil
}

// loadCollectionFile loads a single collection configuration from a JSON file.
func loadCollectionFile(filePath string) (*CollectionConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var collection CollectionConfig
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if err := validateCollection(&collection); err != nil {
		return nil, fmt.Errorf("invalid collection configuration: %w", err)
	}

	return &collection, nil
}

// validateCollection checks that a collection configuration is valid.
func validateCollection(c *CollectionConfig) error {
	if c.ID == "" {
		return fmt.Errorf("collection ID is required")
	}

	if c.Title == "" {
		return fmt.Errorf("collection title is required")
	}

	if c.Description == "" {
		return fmt.Errorf("collection description is required")
	}

	switch c.Backend {
	case BackendASF:
		if len(c.ASFDatasets) == 0 {
			return fmt.Errorf("ASF collection must specify at least one ASF dataset")
		}
	case BackendSTAC:
	default:
		return fmt.Errorf("collection backend must be %q or %q, got %q", BackendASF, BackendSTAC, c.Backend)
	}

	if len(c.RGBBands) != 0 && len(c.RGBBands) != 3 {
		return fmt.Errorf("rgb_bands must list exactly 3 bands, got %d", len(c.RGBBands))
	}

	if c.License == "" {
		return fmt.Errorf("collection license is required")
	}

	for i, bbox := range c.Extent.Spatial.BBox {
		if len(bbox) != 4 && len(bbox) != 6 {
			return fmt.Errorf("bbox[%d] must have 4 or 6 values, got %d", i, len(bbox))
		}
	}

	for i, interval := range c.Extent.Temporal.Interval {
		if len(interval) != 2 {
			return fmt.Errorf("temporal interval[%d] must have exactly 2 values, got %d", i, len(interval))
		}
	}

	return nil
}

// Add registers a collection in the registry.
// Returns an error if a collection with the same ID already exists.
func (r *CollectionRegistry) Add(collection *CollectionConfig) error {
	if collection == nil {
		return fmt.Errorf("cannot add nil collection")
	}

	if _, exists := r.collections[collection.ID]; exists {
		return fmt.Errorf("collection with ID %q already exists", collection.ID)
	}

	r.collections[collection.ID] = collection
	return nil
}

// Put registers a collection, replacing any existing one with the same ID.
func (r *CollectionRegistry) Put(collection *CollectionConfig) {
	if collection != nil {
		r.collections[collection.ID] = collection
	}
}

// Get retrieves a collection by ID.
// Returns nil if the collection does not exist.
func (r *CollectionRegistry) Get(id string) *CollectionConfig {
	return r.collections[id]
}

// Has checks if a collection with the given ID exists in the registry.
func (r *CollectionRegistry) Has(id string) bool {
	_, exists := r.collections[id]
	return exists
}

// All returns all collections in the registry ordered by ID.
func (r *CollectionRegistry) All() []*CollectionConfig {
	collections := make([]*CollectionConfig, 0, len(r.collections))
	for _, collection := range r.collections {
		collections = append(collections, collection)
	}
	sort.Slice(collections, func(i, j int) bool { return collections[i].ID < collections[j].ID })
	return collections
}

// IDs returns all collection IDs in the registry, sorted.
func (r *CollectionRegistry) IDs() []string {
	ids := make([]string, 0, len(r.collections))
	for id := range r.collections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of collections in the registry.
func (r *CollectionRegistry) Count() int {
	return len(r.collections)
}

// ByBackend returns the collections served by the given backend, ordered by ID.
func (r *CollectionRegistry) ByBackend(backend BackendType) []*CollectionConfig {
	var matches []*CollectionConfig
	for _, c := range r.All() {
		if c.Backend == backend {
			matches = append(matches, c)
		}
	}
	return matches
}
