package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Veraticus/triage/internal/common"
	"github.com/Veraticus/triage/internal/model"
)

// Stats fetches the backend's aggregate counters. A non-2xx answer is
// returned as *StatusError; transport failures wrap common.ErrTransport.
func (c *Client) Stats(ctx context.Context) (model.APIKPIs, error) {
	body, err := c.get(ctx, RouteStats)
	if err != nil {
		return model.APIKPIs{}, err
	}

	var stats model.APIKPIs
	if err := json.Unmarshal(body, &stats); err != nil {
		return model.APIKPIs{}, fmt.Errorf("%w: stats: %v", common.ErrMalformedResponse, err)
	}
	return stats, nil
}

// Health probes the backend's liveness route.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.get(ctx, RouteHealth)
	return err
}

func (c *Client) get(ctx context.Context, route string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+route, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", common.ErrTransport, route, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", common.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d := decodeResponse(resp.StatusCode, body)
		return nil, d.err()
	}
	return body, nil
}
