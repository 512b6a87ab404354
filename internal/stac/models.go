// Package stac provides a STAC API search client, wrapping planetlabs/go-stac
// for core types and adding the item-search request and response types.
package stac

import (
	"encoding/json"

	"github.com/planetlabs/go-ogc/filter"
	gostac "github.com/planetlabs/go-stac"

	"github.com/robert-malhotra/scene-availability/internal/geo"
)

// Re-export core types from planetlabs/go-stac for convenience
type (
	Item       = gostac.Item
	Collection = gostac.Collection
	Link       = gostac.Link
)

// FilterLangCQL2JSON is the filter-lang value for CQL2-JSON filters.
const FilterLangCQL2JSON = "cql2-json"

// SearchRequest is the POST /search body (STAC API item search with the
// filter and sort extensions).
type SearchRequest struct {
	Collections []string       `json:"collections,omitempty"`
	Intersects  *geo.Polygon   `json:"intersects,omitempty"`
	Datetime    string         `json:"datetime,omitempty"`
	Filter      *filter.Filter `json:"filter,omitempty"`
	FilterLang  string         `json:"filter-lang,omitempty"`
	SortBy      []SortBy       `json:"sortby,omitempty"`
	Limit       int            `json:"limit,omitempty"`
}

// SearchResponse is an ItemCollection returned by /search.
type SearchResponse struct {
	Type           string         `json:"type"` // "FeatureCollection"
	Features       []*gostac.Item `json:"features"`
	Links          []*SearchLink  `json:"links"`
	NumberMatched  *int           `json:"numberMatched,omitempty"`
	NumberReturned *int           `json:"numberReturned,omitempty"`
	Context        *SearchContext `json:"context,omitempty"`
}

// SearchContext is the legacy context extension block.
type SearchContext struct {
	Returned int  `json:"returned"`
	Limit    int  `json:"limit,omitempty"`
	Matched  *int `json:"matched,omitempty"`
}

// SearchLink is a link in a search response. Paging links may carry a
// method and body to replay against the search endpoint.
type SearchLink struct {
	Rel    string          `json:"rel"`
	Href   string          `json:"href"`
	Type   string          `json:"type,omitempty"`
	Method string          `json:"method,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`
	Merge  bool            `json:"merge,omitempty"`
}

// Next returns the rel="next" link, or nil on the last page.
func (r *SearchResponse) Next() *SearchLink {
	for _, l := range r.Links {
		if l != nil && l.Rel == "next" {
			return l
		}
	}
	return nil
}

// Matched returns the total number of matching items when the server reports it.
func (r *SearchResponse) Matched() (int, bool) {
	if r.NumberMatched != nil {
		return *r.NumberMatched, true
	}
	if r.Context != nil && r.Context.Matched != nil {
		return *r.Context.Matched, true
	}
	return 0, false
}

// NewCollection creates a new STAC Collection with the given ID.
func NewCollection(id, title, description, license, version string) *gostac.Collection {
	return &gostac.Collection{
		Version:     version,
		Id:          id,
		Title:       title,
		Description: description,
		License:     license,
		Links:       make([]*gostac.Link, 0),
		Summaries:   make(map[string]any),
	}
}
