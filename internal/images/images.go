// Package images holds the client for the external photo lookup service
// used to decorate trip listings. Lookups are display-only: results never
// feed authorization, and trip records are never cached here — only the
// location→URL mapping is.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Client looks up one representative image URL per location, with a
// bounded in-process cache in front of the HTTP calls.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *lru.Cache[string, string]
}

// NewClient constructs a Client for the photo service at baseURL with an
// LRU cache of cacheSize locations.
func NewClient(baseURL, apiKey string, cacheSize int) (*Client, error) {
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("images.NewClient: %w", err)
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cache:      cache,
	}, nil
}

// ImageURL returns an image URL for the location, or "" when the service
// has none. Cached entries are returned without a network call.
func (c *Client) ImageURL(ctx context.Context, location string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(location))
	if key == "" {
		return "", nil
	}
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	u := c.baseURL + "/v1/search?query=" + url.QueryEscape(key) + "&per_page=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("images.Client.ImageURL: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("images.Client.ImageURL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("images.Client.ImageURL: unexpected status %d", resp.StatusCode)
	}

	var parsed struct {
		Results []struct {
			URL string `json:"url"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("images.Client.ImageURL: decode: %w", err)
	}
	if len(parsed.Results) == 0 {
		// Negative results are cached too; retrying per request would
		// hammer the service for locations it cannot illustrate.
		c.cache.Add(key, "")
		return "", nil
	}

	c.cache.Add(key, parsed.Results[0].URL)
	return parsed.Results[0].URL, nil
}

// Disabled is an ImageEnricher that returns no images. Used when no
// IMAGE_API_URL is configured.
type Disabled struct{}

// ImageURL always reports no image.
func (Disabled) ImageURL(context.Context, string) (string, error) {
	return "", nil
}
