package stac

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrTooManyPages is returned when paging stops at the configured page limit.
var ErrTooManyPages = errors.New("stac: page limit reached")

// DefaultMaxPages bounds how many pages Each will follow.
const DefaultMaxPages = 100

// Client performs item searches against a STAC API.
type Client struct {
	baseURL    string
	userAgent  string
	maxPages   int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new STAC API client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "scene-availability/1.0",
		maxPages:  DefaultMaxPages,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: slog.Default(),
	}
}

// WithLogger sets a custom logger for the client
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// WithMaxPages limits how many pages Each follows. Non-positive values are ignored.
func (c *Client) WithMaxPages(n int) *Client {
	if n > 0 {
		c.maxPages = n
	}
	return c
}

// BaseURL returns the API root the client searches.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search posts req to /search and returns the first page.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.baseURL+"/search", body)
}

// Follow fetches the page a next link points at. A POST link's body is sent
// as-is, or merged over the original request when the link asks for it.
func (c *Client) Follow(ctx context.Context, link *SearchLink, orig *SearchRequest) (*SearchResponse, error) {
	if link == nil || link.Href == "" {
		return nil, errors.New("stac: empty next link")
	}

	target, err := c.resolve(link.Href)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(link.Method, http.MethodPost) {
		return c.do(ctx, http.MethodGet, target, nil)
	}

	body := []byte(link.Body)
	if link.Merge || len(body) == 0 {
		body, err = mergeBody(orig, link.Body)
		if err != nil {
			return nil, err
		}
	}
	return c.do(ctx, http.MethodPost, target, body)
}

// Each runs req and calls fn with every page until fn returns false, the
// last page is reached, or the page limit is hit.
func (c *Client) Each(ctx context.Context, req *SearchRequest, fn func(*SearchResponse) bool) error {
	page, err := c.Search(ctx, req)
	if err != nil {
		return err
	}

	for pages := 1; ; pages++ {
		if !fn(page) {
			return nil
		}
		next := page.Next()
		if next == nil || len(page.Features) == 0 {
			return nil
		}
		if pages >= c.maxPages {
			c.logger.WarnContext(ctx, "stopping STAC paging at page limit",
				slog.Int("max_pages", c.maxPages),
			)
			return fmt.Errorf("%w (%d)", ErrTooManyPages, c.maxPages)
		}
		if page, err = c.Follow(ctx, next, req); err != nil {
			return err
		}
	}
}

// SearchAll collects every item matching req across pages.
func (c *Client) SearchAll(ctx context.Context, req *SearchRequest) ([]*Item, error) {
	var items []*Item
	err := c.Each(ctx, req, func(page *SearchResponse) bool {
		items = append(items, page.Features...)
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) do(ctx context.Context, method, target string, body []byte) (*SearchResponse, error) {
	c.logger.DebugContext(ctx, "executing STAC search",
		slog.String("method", method),
		slog.String("url", target),
	)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/geo+json, application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "STAC API request failed",
			slog.String("error", err.Error()),
			slog.String("url", target),
		)
		return nil, fmt.Errorf("STAC API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		c.logger.ErrorContext(ctx, "STAC API returned non-200 status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(msg)),
		)
		return nil, fmt.Errorf("STAC API returned status %d: %s", resp.StatusCode, string(msg))
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode STAC response: %w", err)
	}

	c.logger.DebugContext(ctx, "STAC search completed",
		slog.Int("feature_count", len(result.Features)),
	)
	return &result, nil
}

func (c *Client) resolve(href string) (string, error) {
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid next link %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// mergeBody overlays the link body's top-level keys on the original request.
func mergeBody(orig *SearchRequest, overlay json.RawMessage) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if orig != nil {
		data, err := json.Marshal(orig)
		if err != nil {
			return nil, fmt.Errorf("failed to encode search request: %w", err)
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("failed to encode search request: %w", err)
		}
	}
	if len(overlay) > 0 {
		var extra map[string]json.RawMessage
		if err := json.Unmarshal(overlay, &extra); err != nil {
			return nil, fmt.Errorf("invalid next link body: %w", err)
		}
		for k, v := range extra {
			fields[k] = v
		}
	}
	return json.Marshal(fields)
}
