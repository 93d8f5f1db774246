package auth

import (
	"context"
	"fmt"

	"github.com/dghubble/oauth1"
)

// OAuth1Config holds OAuth 1.0a user-context credentials.
type OAuth1Config struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string
}

// NewOAuth1Fetcher returns a user-context fetcher that signs every request with OAuth 1.0a.
func NewOAuth1Fetcher(ctx context.Context, cfg OAuth1Config) (*HTTPFetcher, error) {
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, fmt.Errorf("oauth1: consumer key and secret are required")
	}
	if cfg.Token == "" || cfg.TokenSecret == "" {
		return nil, fmt.Errorf("oauth1: access token and secret are required")
	}
	hc := oauth1.NewClient(ctx,
		oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret),
		oauth1.NewToken(cfg.Token, cfg.TokenSecret),
	)
	return NewHTTPFetcher(hc), nil
}
