// Command xsync reads, writes and incrementally syncs X/Twitter listings into a
// local SQLite database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	twitter "github.com/anatolykoptev/go-twitter-sync"
	"github.com/anatolykoptev/go-twitter-sync/auth"
	"github.com/anatolykoptev/go-twitter-sync/config"
	"github.com/anatolykoptev/go-twitter-sync/logging"
)

type command struct {
	usage string
	run   func(ctx context.Context, env *env, args []string) error
}

var commands = map[string]command{
	"user":          {"user <id|handle|url>", runUser},
	"tweet":         {"tweet <id|url>...", runTweet},
	"timeline":      {"timeline [-limit n] [-since date] [-cursor c] <user>", runTimeline},
	"search":        {"search [-cursor c] <query>", runSearch},
	"sync":          {"sync [-reset]", runSync},
	"post":          {"post [-reply-to id] [-quote id] <text>", runPost},
	"like":          {"like <id|url>", toggleCmd((*twitter.Client).LikeTweet)},
	"unlike":        {"unlike <id|url>", toggleCmd((*twitter.Client).UnlikeTweet)},
	"bookmark":      {"bookmark <id|url>", toggleCmd((*twitter.Client).BookmarkTweet)},
	"unbookmark":    {"unbookmark <id|url>", toggleCmd((*twitter.Client).RemoveBookmark)},
	"auth-url":      {"auth-url", runAuthURL},
	"auth-exchange": {"auth-exchange -code c -verifier v", runAuthExchange},
}

// env is what every command gets: loaded config and a lazily built client.
type env struct {
	cfg    *config.Config
	client *twitter.Client
}

func main() {
	flags := flag.NewFlagSet("xsync", flag.ExitOnError)
	configPath := flags.String("config", "~/.go-twitter-sync/config.yaml", "path to the configuration file")
	envFile := flags.String("env", ".env", "dotenv file with secrets")
	verbose := flags.Bool("v", false, "debug logging")
	flags.Usage = usage(flags)
	_ = flags.Parse(os.Args[1:])

	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}
	cmd, ok := commands[flags.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", flags.Arg(0))
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	logging.Setup(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, &env{cfg: cfg}, flags.Args()[1:]); err != nil {
		slog.Error("command failed", slog.String("command", flags.Arg(0)), slog.Any("error", err))
		stop()
		os.Exit(exitCode(err))
	}
}

func usage(flags *flag.FlagSet) func() {
	return func() {
		fmt.Fprintln(os.Stderr, "usage: xsync [flags] <command> [args]")
		flags.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\ncommands:")
		for _, name := range []string{
			"user", "tweet", "timeline", "search", "sync", "post",
			"like", "unlike", "bookmark", "unbookmark", "auth-url", "auth-exchange",
		} {
			fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
		}
	}
}

// exitCode maps rate limiting to 3 so wrappers can back off, other failures to 1.
func exitCode(err error) int {
	var apiErr *twitter.APIError
	if errors.As(err, &apiErr) && apiErr.Class == twitter.ClassRateLimited {
		return 3
	}
	return 1
}

// Client builds the API client on first use. OAuth 1.0a user context wins over a
// stored OAuth 2.0 token when both are configured.
func (e *env) Client(ctx context.Context) (*twitter.Client, error) {
	if e.client != nil {
		return e.client, nil
	}
	cc := twitter.ClientConfig{
		BaseURL:          e.cfg.API.BaseURL,
		BearerToken:      e.cfg.API.BearerToken,
		Proxy:            e.cfg.API.Proxy,
		SkipOrphanTweets: e.cfg.API.SkipOrphanTweets,
		MetricsHook: func(endpoint string, success, rateLimited bool) {
			slog.Debug("api call",
				slog.String("endpoint", endpoint),
				slog.Bool("success", success),
				slog.Bool("rate_limited", rateLimited))
		},
	}

	switch {
	case e.cfg.OAuth1.Enabled():
		f, err := auth.NewOAuth1Fetcher(ctx, auth.OAuth1Config{
			ConsumerKey:    e.cfg.OAuth1.ConsumerKey,
			ConsumerSecret: e.cfg.OAuth1.ConsumerSecret,
			Token:          e.cfg.OAuth1.AccessToken,
			TokenSecret:    e.cfg.OAuth1.AccessSecret,
		})
		if err != nil {
			return nil, err
		}
		cc.UserFetcher = f
	case e.cfg.OAuth2.Enabled():
		tok, err := auth.LoadToken(e.cfg.OAuth2.TokenPath)
		if err != nil {
			return nil, err
		}
		if tok == nil {
			slog.Warn("no oauth2 token stored, user-context commands unavailable (run auth-url)",
				slog.String("path", e.cfg.OAuth2.TokenPath))
			break
		}
		f, err := auth.NewOAuth2Fetcher(ctx, e.oauth2(), tok)
		if err != nil {
			return nil, err
		}
		cc.UserFetcher = f
	}

	c, err := twitter.NewClient(cc)
	if err != nil {
		return nil, err
	}
	e.client = c
	return c, nil
}

func (e *env) oauth2() auth.OAuth2Config {
	return auth.OAuth2Config{
		ClientID:     e.cfg.OAuth2.ClientID,
		ClientSecret: e.cfg.OAuth2.ClientSecret,
		RedirectURL:  e.cfg.OAuth2.RedirectURL,
		Scopes:       twitter.RequiredScopes(),
		TokenPath:    e.cfg.OAuth2.TokenPath,
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
