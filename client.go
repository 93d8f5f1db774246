// Package twitter exposes the X/Twitter API v2 resources as typed, paginated
// listings and write actions. Listings return one page per call together with
// an opaque Cursor; callers own all resumption state.
package twitter

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go-twitter-sync/auth"
)

// Client is the top-level API client. It is immutable after NewClient and safe
// for concurrent use.
type Client struct {
	cfg  ClientConfig
	app  auth.Fetcher
	user auth.Fetcher
}

// NewClient creates a fully-wired client.
func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.defaults()

	c := &Client{cfg: cfg, app: cfg.AppFetcher, user: cfg.UserFetcher}
	if c.app == nil && cfg.BearerToken != "" {
		var opts []auth.BearerOption
		if cfg.Proxy != "" {
			opts = append(opts, auth.WithProxy(cfg.Proxy))
		}
		bf, err := auth.NewBearerFetcher(cfg.BearerToken, opts...)
		if err != nil {
			return nil, fmt.Errorf("bearer fetcher: %w", err)
		}
		c.app = bf
	}
	if c.app == nil && c.user == nil {
		return nil, errors.New("no credentials: set BearerToken, AppFetcher or UserFetcher")
	}

	slog.Debug("twitter client ready",
		slog.String("base_url", cfg.BaseURL),
		slog.Bool("app_only", c.app != nil),
		slog.Bool("user_context", c.user != nil))
	return c, nil
}

// HasUserContext reports whether self-scoped resources are available.
func (c *Client) HasUserContext() bool {
	return c.user != nil
}

// fetcherFor picks the fetcher a resource needs. App-only resources prefer the app
// fetcher and fall back to the user context.
func (c *Client) fetcherFor(res Resource) (auth.Fetcher, error) {
	if res.Auth == auth.UserContext {
		if c.user == nil {
			return nil, fmt.Errorf("%s: %w", res.Name, ErrUserContextRequired)
		}
		return c.user, nil
	}
	if c.app != nil {
		return c.app, nil
	}
	return c.user, nil
}

// url builds an absolute URL for a resource path.
func (c *Client) url(path string, params Params) string {
	return BuildURL(c.cfg.BaseURL, path, params)
}

// checkCursor rejects continuations that do not point at the configured API, so
// credentials are never sent to another host.
func (c *Client) checkCursor(cur Cursor) error {
	if !strings.HasPrefix(string(cur), strings.TrimSuffix(c.cfg.BaseURL, "/")+"/") {
		return ErrInvalidCursor
	}
	return nil
}

// recordAPICall calls the metrics hook if configured.
func (c *Client) recordAPICall(endpoint string, success, rateLimited bool) {
	if c.cfg.MetricsHook != nil {
		c.cfg.MetricsHook(endpoint, success, rateLimited)
	}
}
