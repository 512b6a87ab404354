package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/scene-availability/internal/backend"
	"github.com/robert-malhotra/scene-availability/internal/backend/backendtest"
	"github.com/robert-malhotra/scene-availability/internal/calendar"
	"github.com/robert-malhotra/scene-availability/internal/config"
	"github.com/robert-malhotra/scene-availability/internal/geo"
)

func square(t *testing.T) *geo.Polygon {
	t.Helper()
	p, err := geo.NewPolygon([][]float64{{100, 0}, {101, 0}, {101, 1}, {100, 1}})
	require.NoError(t, err)
	return p
}

func dates(t *testing.T) calendar.DateRange {
	t.Helper()
	r, err := calendar.NewDateRange("2023-01-01", "2023-03-01")
	require.NoError(t, err)
	return r
}

func TestPreview(t *testing.T) {
	cat := &backendtest.Catalog{
		CountFunc: func(backend.Query) (int, error) { return 7, nil },
	}
	var out bytes.Buffer
	p := NewPreviewer(cat, config.DefaultCollections(), &out)

	m, err := p.Preview(context.Background(), square(t), "sentinel-2-l2a", dates(t), 15, 10)
	require.NoError(t, err)

	assert.InDelta(t, 100.5, m.Center.Lon, 1e-9)
	assert.InDelta(t, 0.5, m.Center.Lat, 1e-9)
	assert.Equal(t, 10, m.Zoom)
	require.Len(t, m.Layers, 1)

	layer := m.Layers[0]
	assert.Equal(t, "Satellite Image from 2023-01-01 to 2023-03-01", layer.Name)
	assert.True(t, layer.Visible)
	assert.Equal(t, Vis{Min: 0, Max: 2000, Bands: []string{"B04", "B03", "B02"}}, layer.Vis)
	assert.Equal(t, ReducerMedian, layer.Composite.Reducer)
	assert.Equal(t, 15.0, layer.Composite.MaxCloud)
	assert.Equal(t, 7, layer.SceneCount)

	queries := cat.Queries()
	require.Len(t, queries, 1)
	q := queries[0]
	assert.Equal(t, "sentinel-2-l2a", q.Collection)
	assert.Equal(t, calendar.Date(2023, 1, 1), q.Start)
	assert.Equal(t, calendar.Date(2023, 3, 1), q.End)
	limit, ok := backendtest.HasFilter(q, backend.PropCloudCover, backend.OpLt)
	assert.True(t, ok)
	assert.Equal(t, 15.0, limit)

	text := out.String()
	assert.Contains(t, text, "Study area Preview")
	assert.Contains(t, text, "Study area coordinates: [[100 0] [101 0] [101 1] [100 1] [100 0]]")
	assert.Contains(t, text, "Study area picture date : 2023-01-01 to 2023-03-01")
}

func TestPreview_JSON(t *testing.T) {
	p := NewPreviewer(&backendtest.Catalog{}, config.DefaultCollections(), nil)
	m, err := p.Preview(context.Background(), square(t), "sentinel-2-l2a", dates(t), 20, 8)
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	layers := decoded["layers"].([]any)
	composite := layers[0].(map[string]any)["composite"].(map[string]any)
	clip := composite["clip"].(map[string]any)
	assert.Equal(t, "Polygon", clip["type"])
}

func TestPreview_Errors(t *testing.T) {
	upstream := errors.New("catalog unavailable")

	tests := []struct {
		name       string
		collection string
		dates      calendar.DateRange
		countErr   error
		wantErr    error
	}{
		{
			name:       "unknown collection",
			collection: "landsat-9",
			dates:      calendar.DateRange{Start: "2023-01-01", End: "2023-02-01"},
			wantErr:    backend.ErrUnknownCollection,
		},
		{
			name:       "radar collection has no rgb bands",
			collection: "sentinel-1",
			dates:      calendar.DateRange{Start: "2023-01-01", End: "2023-02-01"},
			wantErr:    ErrNoRGBBands,
		},
		{
			name:       "invalid dates",
			collection: "sentinel-2-l2a",
			dates:      calendar.DateRange{Start: "2023-02-01", End: "2023-01-01"},
			wantErr:    calendar.ErrInvalidDateRange,
		},
		{
			name:       "catalog failure propagates",
			collection: "sentinel-2-l2a",
			dates:      calendar.DateRange{Start: "2023-01-01", End: "2023-02-01"},
			countErr:   upstream,
			wantErr:    upstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := &backendtest.Catalog{
				CountFunc: func(backend.Query) (int, error) { return 0, tt.countErr },
			}
			p := NewPreviewer(cat, config.DefaultCollections(), nil)
			_, err := p.Preview(context.Background(), square(t), tt.collection, tt.dates, 20, 10)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
