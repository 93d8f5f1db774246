package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// tokenDir returns the default directory for persisted tokens.
func tokenDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".go-twitter-sync")
}

// DefaultTokenPath returns the default file for a persisted OAuth2 token.
func DefaultTokenPath() string {
	return filepath.Join(tokenDir(), "token.json")
}

// savedToken holds a serialized OAuth2 token for persistence.
type savedToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	SavedAt      time.Time `json:"saved_at"`
}

// SaveToken persists an OAuth2 token to path with owner-only permissions.
func SaveToken(path string, tok *oauth2.Token) error {
	if tok == nil {
		return fmt.Errorf("save token: nil token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	s := savedToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		SavedAt:      time.Now(),
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write token %s: %w", path, err)
	}
	slog.Debug("token saved", slog.String("path", path))
	return nil
}

// LoadToken reads a persisted token. A missing file yields (nil, nil).
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s savedToken
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse token %s: %w", path, err)
	}
	if s.AccessToken == "" && s.RefreshToken == "" {
		return nil, nil
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		Expiry:       s.Expiry,
	}, nil
}

// savingTokenSource persists the token whenever the wrapped source refreshes it.
type savingTokenSource struct {
	base oauth2.TokenSource
	path string

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if s.path != "" {
			if err := SaveToken(s.path, tok); err != nil {
				slog.Warn("token save failed", slog.Any("error", err))
			}
		}
	}
	return tok, nil
}
