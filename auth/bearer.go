package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	stealth "github.com/anatolykoptev/go-stealth"
)

// defaultUserAgent is the fallback User-Agent when no browser profile is set.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// apiHeaderOrder is the header order sent on API requests for fingerprint consistency.
var apiHeaderOrder = []string{
	"authorization",
	"content-type",
	"sec-ch-ua",
	"sec-ch-ua-mobile",
	"sec-ch-ua-platform",
	"user-agent",
	"accept",
	"accept-language",
	"accept-encoding",
}

// BearerFetcher issues app-only requests with a bearer token over a go-stealth client.
type BearerFetcher struct {
	token     string
	userAgent string
	client    *stealth.BrowserClient
}

type bearerOptions struct {
	proxy      string
	profileIdx int
	hasProfile bool
}

// BearerOption configures NewBearerFetcher.
type BearerOption func(*bearerOptions)

// WithProxy routes requests through the given proxy URL.
func WithProxy(proxy string) BearerOption {
	return func(o *bearerOptions) { o.proxy = proxy }
}

// WithBrowserProfile selects a builtin browser profile by index (wrapped).
func WithBrowserProfile(idx int) BearerOption {
	return func(o *bearerOptions) {
		o.profileIdx = idx
		o.hasProfile = true
	}
}

// NewBearerFetcher creates an app-only fetcher for the given bearer token.
func NewBearerFetcher(token string, opts ...BearerOption) (*BearerFetcher, error) {
	if token == "" {
		return nil, fmt.Errorf("bearer token is empty")
	}
	var o bearerOptions
	for _, opt := range opts {
		opt(&o)
	}

	userAgent := defaultUserAgent
	clientOpts := []stealth.ClientOption{
		stealth.WithHeaderOrder(apiHeaderOrder),
	}
	if o.proxy != "" {
		clientOpts = append(clientOpts, stealth.WithProxy(o.proxy))
		slog.Debug("bearer fetcher using proxy", slog.String("proxy", stealth.MaskProxy(o.proxy)))
	}
	if o.hasProfile && len(stealth.BuiltinProfiles) > 0 {
		p := stealth.BuiltinProfiles[o.profileIdx%len(stealth.BuiltinProfiles)]
		clientOpts = append(clientOpts, stealth.WithProfile(p.TLSProfile))
		userAgent = p.UserAgent
	}

	bc, err := stealth.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}
	return &BearerFetcher{token: token, userAgent: userAgent, client: bc}, nil
}

// Fetch implements Fetcher.
func (f *BearerFetcher) Fetch(ctx context.Context, method, url string, body []byte) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var r io.Reader
	if len(body) > 0 {
		r = bytes.NewReader(body)
	}
	respBody, respHdrs, status, err := f.client.DoWithHeaderOrder(method, url, f.headers(), r, apiHeaderOrder)
	if err != nil {
		return nil, err
	}
	return &Response{Status: status, Body: respBody, Header: lowerKeys(respHdrs)}, nil
}

// headers returns the request headers for an app-only API call.
func (f *BearerFetcher) headers() map[string]string {
	h := map[string]string{
		"authorization":   "Bearer " + f.token,
		"content-type":    "application/json",
		"user-agent":      f.userAgent,
		"accept":          "application/json",
		"accept-language": "en-US,en;q=0.9",
		"accept-encoding": "gzip, deflate, br",
	}
	if ch := stealth.ClientHintsHeaders(f.userAgent); ch != nil {
		for k, v := range ch {
			h[k] = v
		}
	}
	return h
}
