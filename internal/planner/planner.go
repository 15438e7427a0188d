// Package planner holds the client for the external itinerary-generation
// service. The trip core treats its output as an opaque payload; nothing
// here parses the itinerary beyond transporting it.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the planning service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a Client for the planning service at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // generation is slow; well above store timeouts
		},
	}
}

// Generate posts the search criteria and returns the generated itinerary
// verbatim.
func (c *Client) Generate(ctx context.Context, criteria json.RawMessage) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]json.RawMessage{"criteria": criteria})
	if err != nil {
		return nil, fmt.Errorf("planner.Client.Generate: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/itineraries", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("planner.Client.Generate: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("planner.Client.Generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("planner.Client.Generate: unexpected status %d", resp.StatusCode)
	}

	var parsed struct {
		Itinerary json.RawMessage `json:"itinerary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("planner.Client.Generate: decode: %w", err)
	}
	return parsed.Itinerary, nil
}

// Static returns a fixed itinerary on every call. It stands in for the
// planning service when no PLANNER_URL is configured (local development)
// and in tests.
type Static struct {
	Itinerary json.RawMessage
}

// Generate returns the configured itinerary, or an empty one by default.
func (s Static) Generate(_ context.Context, _ json.RawMessage) (json.RawMessage, error) {
	if s.Itinerary != nil {
		return s.Itinerary, nil
	}
	return json.RawMessage(`{"days":[]}`), nil
}
