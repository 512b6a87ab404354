package asf

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Search_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "/services/search/param") {
			t.Errorf("Expected path /services/search/param, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("output"); got != "geojson" {
			t.Errorf("Expected output=geojson, got %q", got)
		}

		response := ASFGeoJSONResponse{
			Type: "FeatureCollection",
			Features: []ASFFeature{
				{
					Type: "Feature",
					Geometry: &Geometry{
						Type:        "Polygon",
						Coordinates: json.RawMessage(`[[[-122.0, 37.0], [-121.0, 37.0], [-121.0, 38.0], [-122.0, 38.0], [-122.0, 37.0]]]`),
					},
					Properties: ASFProperties{
						SceneName:       "S1A_IW_GRDH_1SDV_20240101T000000",
						FileID:          "S1A_IW_GRDH_1SDV_20240101T000000-GRD_HD",
						Platform:        "Sentinel-1A",
						BeamModeType:    "IW",
						Polarization:    "VV+VH",
						FlightDirection: "ASCENDING",
						ProcessingLevel: "GRD_HD",
						StartTime:       "2024-01-01T00:00:00.000000Z",
						StopTime:        "2024-01-01T00:01:00.000000Z",
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	result, err := client.Search(context.Background(), SearchParams{
		Dataset:    []string{"SENTINEL-1"},
		MaxResults: 10,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(result.Features) != 1 {
		t.Fatalf("Expected 1 feature, got %d", len(result.Features))
	}

	feature := result.Features[0]
	if feature.Properties.Platform != "Sentinel-1A" {
		t.Errorf("Expected platform Sentinel-1A, got %s", feature.Properties.Platform)
	}
	if feature.Properties.BeamModeType != "IW" {
		t.Errorf("Expected beamModeType IW, got %s", feature.Properties.BeamModeType)
	}
	if feature.Properties.Polarization != "VV+VH" {
		t.Errorf("Expected polarization VV+VH, got %s", feature.Properties.Polarization)
	}
}

func TestClient_Search_WithParams(t *testing.T) {
	var capturedURL string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedURL = r.URL.String()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ASFGeoJSONResponse{Type: "FeatureCollection", Features: []ASFFeature{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	params := SearchParams{
		Dataset:         []string{"SENTINEL-1"},
		BeamMode:        []string{"IW", "EW"},
		FlightDirection: "ASCENDING",
		MaxResults:      50,
		Start:           &start,
		End:             &end,
	}

	if _, err := client.Search(context.Background(), params); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	// Multi-value params like beamMode use separate query params, not comma-separated
	expectedParams := []string{
		"dataset=SENTINEL-1",
		"beamMode=IW",
		"beamMode=EW",
		"flightDirection=ASCENDING",
		"maxResults=50",
		"output=geojson",
		"start=2024-01-01T00%3A00%3A00Z",
	}

	for _, param := range expectedParams {
		if !strings.Contains(capturedURL, param) {
			t.Errorf("URL missing expected parameter '%s': %s", param, capturedURL)
		}
	}
}

func TestClient_Search_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	_, err := client.Search(context.Background(), SearchParams{Dataset: []string{"SENTINEL-1"}})
	if err == nil {
		t.Fatal("Expected error for 500 response, got nil")
	}

	if !strings.Contains(err.Error(), "500") {
		t.Errorf("Error should contain status code 500: %v", err)
	}
}

func TestClient_Search_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("not valid json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	_, err := client.Search(context.Background(), SearchParams{Dataset: []string{"SENTINEL-1"}})
	if err == nil {
		t.Fatal("Expected error for invalid JSON, got nil")
	}

	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("Error should mention decode failure: %v", err)
	}
}

func TestClient_Search_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 50*time.Millisecond)

	_, err := client.Search(context.Background(), SearchParams{Dataset: []string{"SENTINEL-1"}})
	if err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}

func TestClient_Search_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := client.Search(ctx, SearchParams{Dataset: []string{"SENTINEL-1"}})
	if err == nil {
		t.Fatal("Expected context cancellation error, got nil")
	}
}

func TestClient_Count_Success(t *testing.T) {
	var capturedQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("1234\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	n, err := client.Count(context.Background(), SearchParams{
		Dataset:    []string{"SENTINEL-1"},
		BeamMode:   []string{"IW"},
		MaxResults: 5,
	})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	if n != 1234 {
		t.Errorf("Expected count 1234, got %d", n)
	}
	if !strings.Contains(capturedQuery, "output=count") {
		t.Errorf("Expected output=count in query: %s", capturedQuery)
	}
	if strings.Contains(capturedQuery, "maxResults") {
		t.Errorf("Count should not limit results: %s", capturedQuery)
	}
}

func TestClient_Count_NotANumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	_, err := client.Count(context.Background(), SearchParams{Dataset: []string{"SENTINEL-1"}})
	if err == nil {
		t.Fatal("Expected error for non-numeric count, got nil")
	}
}

func TestClient_Count_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid intersectsWith"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 30*time.Second)

	_, err := client.Count(context.Background(), SearchParams{IntersectsWith: "POLYGON(("})
	if err == nil {
		t.Fatal("Expected error for 400 response, got nil")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("Error should contain status code 400: %v", err)
	}
}

func TestClient_WithLogger(t *testing.T) {
	client := NewClient("http://example.com", 30*time.Second)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client = client.WithLogger(logger)

	if client.logger != logger {
		t.Error("Logger was not set correctly")
	}
}

func TestSearchParams_ToQueryString(t *testing.T) {
	tests := []struct {
		name           string
		params         SearchParams
		expectedParams []string
		notExpected    []string
	}{
		{
			name: "basic search",
			params: SearchParams{
				Dataset:    []string{"SENTINEL-1"},
				MaxResults: 10,
			},
			expectedParams: []string{"dataset=SENTINEL-1", "maxResults=10", "output=geojson"},
		},
		{
			name: "beam modes",
			params: SearchParams{
				BeamMode: []string{"IW", "EW"},
			},
			expectedParams: []string{"beamMode=IW", "beamMode=EW"},
		},
		{
			name: "processing level",
			params: SearchParams{
				ProcessingLevel: []string{"GRD_HD", "GRD_MD"},
			},
			expectedParams: []string{"processingLevel=GRD_HD%2CGRD_MD"},
		},
		{
			name: "count output",
			params: SearchParams{
				Output: OutputCount,
			},
			expectedParams: []string{"output=count"},
			notExpected:    []string{"output=geojson"},
		},
		{
			name: "intersects with WKT",
			params: SearchParams{
				IntersectsWith: "POLYGON((-122 37,-121 37,-121 38,-122 38,-122 37))",
			},
			expectedParams: []string{"intersectsWith="},
		},
		{
			name: "empty params should not appear",
			params: SearchParams{
				Dataset: []string{},
			},
			notExpected: []string{"dataset="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queryString := tt.params.ToQueryString()

			for _, expected := range tt.expectedParams {
				if !strings.Contains(queryString, expected) {
					t.Errorf("Query string missing '%s': %s", expected, queryString)
				}
			}

			for _, notExpected := range tt.notExpected {
				if strings.Contains(queryString, notExpected) {
					t.Errorf("Query string should not contain '%s': %s", notExpected, queryString)
				}
			}
		})
	}
}
