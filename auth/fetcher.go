// Package auth provides the authenticated fetch capability consumed by the
// twitter client: app-only bearer requests and user-context requests signed
// with OAuth 2.0 or OAuth 1.0a. Token exchange helpers live here as well so
// the client itself never handles credentials.
package auth

import (
	"context"
	"strings"
)

// Mode is the kind of authentication a resource requires.
type Mode int

const (
	// AppOnly resources accept an app bearer token or any user context.
	AppOnly Mode = iota
	// UserContext resources act on behalf of the authenticated user.
	UserContext
)

func (m Mode) String() string {
	switch m {
	case AppOnly:
		return "app-only"
	case UserContext:
		return "user-context"
	}
	return "unknown"
}

// Response is a fully-read HTTP response.
// Header keys are lower-cased; multi-valued headers keep their first value.
type Response struct {
	Status int
	Body   []byte
	Header map[string]string
}

// Fetcher performs one authenticated request. Implementations must not retry.
type Fetcher interface {
	Fetch(ctx context.Context, method, url string, body []byte) (*Response, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, method, url string, body []byte) (*Response, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, method, url string, body []byte) (*Response, error) {
	return f(ctx, method, url, body)
}

func lowerKeys(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = v
	}
	return out
}
