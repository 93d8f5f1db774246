// Package config loads the xsync CLI configuration: a YAML file for settings and
// environment variables (optionally from a .env file) for secrets.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override secrets from the YAML file.
const (
	EnvBearerToken    = "XSYNC_BEARER_TOKEN"
	EnvClientID       = "XSYNC_CLIENT_ID"
	EnvClientSecret   = "XSYNC_CLIENT_SECRET"
	EnvConsumerKey    = "XSYNC_CONSUMER_KEY"
	EnvConsumerSecret = "XSYNC_CONSUMER_SECRET"
	EnvAccessToken    = "XSYNC_ACCESS_TOKEN"
	EnvAccessSecret   = "XSYNC_ACCESS_SECRET"
	EnvProxy          = "XSYNC_PROXY"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	OAuth2  OAuth2Config  `yaml:"oauth2"`
	OAuth1  OAuth1Config  `yaml:"oauth1"`
	Store   StoreConfig   `yaml:"store"`
	Sync    SyncConfig    `yaml:"sync"`
	Logging LoggingConfig `yaml:"logging"`
}

type APIConfig struct {
	BaseURL          string `yaml:"base_url"`
	BearerToken      string `yaml:"bearer_token"`
	Proxy            string `yaml:"proxy"`
	SkipOrphanTweets bool   `yaml:"skip_orphan_tweets"`
}

type OAuth2Config struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
	TokenPath    string `yaml:"token_path"`
}

// Enabled reports whether OAuth 2.0 user context is configured.
func (c OAuth2Config) Enabled() bool { return c.ClientID != "" }

type OAuth1Config struct {
	ConsumerKey    string `yaml:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret"`
	AccessToken    string `yaml:"access_token"`
	AccessSecret   string `yaml:"access_secret"`
}

// Enabled reports whether OAuth 1.0a user context is configured.
func (c OAuth1Config) Enabled() bool { return c.ConsumerKey != "" && c.AccessToken != "" }

type StoreConfig struct {
	Path string `yaml:"path"`
}

type SyncConfig struct {
	StatePath      string          `yaml:"state_path"`
	PagesPerSecond float64         `yaml:"pages_per_second"`
	MaxPages       int             `yaml:"max_pages"`
	Listings       []ListingConfig `yaml:"listings"`
}

// ListingConfig names one listing to keep in sync.
type ListingConfig struct {
	Kind  string `yaml:"kind"` // profile, liked, search, followers, following, bookmarks, home
	User  string `yaml:"user"`
	Query string `yaml:"query"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "pretty" or "json"
}

// Listing kinds accepted in ListingConfig.Kind.
var listingKinds = map[string]bool{
	"profile": true, "liked": true, "search": true,
	"followers": true, "following": true, "bookmarks": true, "home": true,
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

func defaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".go-twitter-sync")
}

// Load reads the YAML file at path. A missing file yields the defaults. Variables
// from envFile (if it exists) are loaded into the environment first; variables
// already set are not overwritten.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(expandPath(envFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(expandPath(path))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyEnv() {
	for env, dst := range map[string]*string{
		EnvBearerToken:    &cfg.API.BearerToken,
		EnvProxy:          &cfg.API.Proxy,
		EnvClientID:       &cfg.OAuth2.ClientID,
		EnvClientSecret:   &cfg.OAuth2.ClientSecret,
		EnvConsumerKey:    &cfg.OAuth1.ConsumerKey,
		EnvConsumerSecret: &cfg.OAuth1.ConsumerSecret,
		EnvAccessToken:    &cfg.OAuth1.AccessToken,
		EnvAccessSecret:   &cfg.OAuth1.AccessSecret,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
}

func (cfg *Config) defaults() {
	if cfg.OAuth2.RedirectURL == "" {
		cfg.OAuth2.RedirectURL = "http://127.0.0.1:8765/callback"
	}
	if cfg.OAuth2.TokenPath == "" {
		cfg.OAuth2.TokenPath = filepath.Join(defaultDir(), "token.json")
	} else {
		cfg.OAuth2.TokenPath = expandPath(cfg.OAuth2.TokenPath)
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(defaultDir(), "tweets.db")
	} else {
		cfg.Store.Path = expandPath(cfg.Store.Path)
	}
	if cfg.Sync.StatePath == "" {
		cfg.Sync.StatePath = filepath.Join(defaultDir(), "state.json")
	} else {
		cfg.Sync.StatePath = expandPath(cfg.Sync.StatePath)
	}
	if cfg.Sync.PagesPerSecond == 0 {
		cfg.Sync.PagesPerSecond = 1
	}
	if cfg.Sync.MaxPages == 0 {
		cfg.Sync.MaxPages = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "pretty"
	}
}

// Validate checks the listing definitions.
func (cfg *Config) Validate() error {
	for i, l := range cfg.Sync.Listings {
		if !listingKinds[l.Kind] {
			return fmt.Errorf("sync.listings[%d]: unknown kind %q", i, l.Kind)
		}
		switch l.Kind {
		case "search":
			if strings.TrimSpace(l.Query) == "" {
				return fmt.Errorf("sync.listings[%d]: search needs a query", i)
			}
		case "profile", "liked", "followers", "following":
			if l.User == "" {
				return fmt.Errorf("sync.listings[%d]: %s needs a user", i, l.Kind)
			}
		}
	}
	return nil
}
