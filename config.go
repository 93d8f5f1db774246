package twitter

import (
	"github.com/anatolykoptev/go-twitter-sync/auth"
)

// ClientConfig holds all configuration for the API client.
type ClientConfig struct {
	// BaseURL is the versioned REST namespace. Default: https://api.twitter.com/2
	BaseURL string

	// BearerToken builds an app-only fetcher when AppFetcher is nil.
	BearerToken string

	// Proxy routes the bearer fetcher through a proxy. Ignored for custom fetchers.
	Proxy string

	// AppFetcher performs app-only requests for public resources.
	AppFetcher auth.Fetcher

	// UserFetcher performs user-context requests. Self-scoped resources and write
	// actions fail with ErrUserContextRequired without it.
	UserFetcher auth.Fetcher

	// SkipOrphanTweets drops tweets whose author is missing from a page instead
	// of failing the page with *MissingAuthorError.
	SkipOrphanTweets bool

	// MetricsHook is called on each API request for external metrics collection.
	// endpoint is the resource name, success and rateLimited indicate the outcome.
	MetricsHook func(endpoint string, success, rateLimited bool)
}

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *ClientConfig) defaults() {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
}
