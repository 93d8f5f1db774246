package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// do executes one request for res. There are no retries: transport errors are
// returned wrapped and non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, res Resource, method, url string, payload any) ([]byte, error) {
	f, err := c.fetcherFor(res)
	if err != nil {
		return nil, err
	}

	var body []byte
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal body: %w", res.Name, err)
		}
	}

	slog.Debug("api request", slog.String("endpoint", res.Name), slog.String("method", method), slog.String("url", url))
	resp, err := f.Fetch(ctx, method, url, body)
	if err != nil {
		c.recordAPICall(res.Name, false, false)
		return nil, fmt.Errorf("%s: %w", res.Name, err)
	}

	if resp.Status < 200 || resp.Status > 299 {
		apiErr := newAPIError(res.Name, resp.Status, resp.Body, resp.Header)
		c.recordAPICall(res.Name, false, apiErr.Class == ClassRateLimited)
		slog.Warn("api non-2xx",
			slog.String("endpoint", res.Name),
			slog.Int("status", resp.Status),
			slog.String("class", apiErr.Class.String()),
			slog.String("body", truncateBytes(resp.Body, 500)))
		return nil, apiErr
	}
	c.recordAPICall(res.Name, true, false)
	return resp.Body, nil
}
