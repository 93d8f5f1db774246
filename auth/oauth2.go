package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

const (
	authorizeURL = "https://twitter.com/i/oauth2/authorize"
	tokenURL     = "https://api.twitter.com/2/oauth2/token"
)

// OAuth2Config describes an OAuth 2.0 client registered with the platform.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string // empty for public clients
	RedirectURL  string
	Scopes       []string

	// TokenPath is where refreshed tokens are persisted. Empty disables persistence.
	TokenPath string

	// AuthURL and TokenURL override the platform endpoints (tests, mirrors).
	AuthURL  string
	TokenURL string
}

func (c OAuth2Config) oauth2() *oauth2.Config {
	ep := oauth2.Endpoint{
		AuthURL:   authorizeURL,
		TokenURL:  tokenURL,
		AuthStyle: oauth2.AuthStyleInParams,
	}
	if c.AuthURL != "" {
		ep.AuthURL = c.AuthURL
	}
	if c.TokenURL != "" {
		ep.TokenURL = c.TokenURL
	}
	if c.ClientSecret != "" {
		ep.AuthStyle = oauth2.AuthStyleInHeader
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       c.Scopes,
		Endpoint:     ep,
	}
}

// NewVerifier returns a fresh PKCE code verifier.
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthCodeURL returns the consent URL for the authorization-code flow with PKCE (S256).
func (c OAuth2Config) AuthCodeURL(state, verifier string) string {
	return c.oauth2().AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange trades an authorization code for a token and persists it when TokenPath is set.
func (c OAuth2Config) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	tok, err := c.oauth2().Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("oauth2 exchange: %w", err)
	}
	if c.TokenPath != "" {
		if err := SaveToken(c.TokenPath, tok); err != nil {
			return tok, err
		}
	}
	return tok, nil
}

// NewOAuth2Fetcher returns a user-context fetcher. The token is refreshed as needed and
// re-persisted to cfg.TokenPath.
func NewOAuth2Fetcher(ctx context.Context, cfg OAuth2Config, tok *oauth2.Token) (*HTTPFetcher, error) {
	if tok == nil {
		return nil, fmt.Errorf("oauth2: no token (run the authorization flow first)")
	}
	base := cfg.oauth2().TokenSource(ctx, tok)
	ts := oauth2.ReuseTokenSource(tok, &savingTokenSource{base: base, path: cfg.TokenPath, last: tok.AccessToken})
	return NewHTTPFetcher(oauth2.NewClient(ctx, ts)), nil
}
