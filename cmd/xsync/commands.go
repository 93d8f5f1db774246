package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	twitter "github.com/anatolykoptev/go-twitter-sync"
	"github.com/anatolykoptev/go-twitter-sync/auth"
	"github.com/anatolykoptev/go-twitter-sync/config"
	"github.com/anatolykoptev/go-twitter-sync/store"
	"github.com/anatolykoptev/go-twitter-sync/syncer"
)

var errUsage = errors.New("bad arguments")

func oneArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: want exactly one argument, got %d", errUsage, len(args))
	}
	return args[0], nil
}

func runUser(ctx context.Context, e *env, args []string) error {
	ref, err := oneArg(args)
	if err != nil {
		return err
	}
	c, err := e.Client(ctx)
	if err != nil {
		return err
	}
	u, err := c.GetUser(ctx, ref)
	if err != nil {
		return err
	}
	return printJSON(u)
}

func runTweet(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: want at least one tweet", errUsage)
	}
	c, err := e.Client(ctx)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		t, err := c.GetTweet(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(t)
	}
	tweets, err := c.GetTweets(ctx, args...)
	if err != nil {
		return err
	}
	return printJSON(tweets)
}

func runTimeline(ctx context.Context, e *env, args []string) error {
	flags := flag.NewFlagSet("timeline", flag.ContinueOnError)
	limit := flags.Int("limit", 0, "fetch exactly one page of n tweets (5-100)")
	since := flags.String("since", "", "only tweets posted on this date (YYYY-MM-DD)")
	cursor := flags.String("cursor", "", "continuation from a previous page")
	if err := flags.Parse(args); err != nil {
		return err
	}
	user, err := oneArg(flags.Args())
	if err != nil {
		return err
	}

	var f twitter.ProfileFilter
	f.Limit = *limit
	if *since != "" {
		if f.Date, err = twitter.ParseDate(*since); err != nil {
			return err
		}
	}
	c, err := e.Client(ctx)
	if err != nil {
		return err
	}
	page, err := c.ProfileTweets(ctx, user, f, twitter.Cursor(*cursor))
	if err != nil {
		return err
	}
	return printJSON(page)
}

func runSearch(ctx context.Context, e *env, args []string) error {
	flags := flag.NewFlagSet("search", flag.ContinueOnError)
	cursor := flags.String("cursor", "", "continuation from a previous page")
	if err := flags.Parse(args); err != nil {
		return err
	}
	c, err := e.Client(ctx)
	if err != nil {
		return err
	}
	page, err := c.SearchTweets(ctx, strings.Join(flags.Args(), " "), twitter.TweetFilter{}, twitter.Cursor(*cursor))
	if err != nil {
		return err
	}
	return printJSON(page)
}

func runSync(ctx context.Context, e *env, args []string) error {
	flags := flag.NewFlagSet("sync", flag.ContinueOnError)
	reset := flags.Bool("reset", false, "forget saved progress and start every listing over")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if len(e.cfg.Sync.Listings) == 0 {
		return errors.New("no listings configured under sync.listings")
	}

	c, err := e.Client(ctx)
	if err != nil {
		return err
	}
	db, err := store.Open(e.cfg.Store.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	state := syncer.NewState(e.cfg.Sync.StatePath)
	if err := state.Load(); err != nil {
		return err
	}
	m := syncer.NewManager(state, db, syncer.Options{
		PagesPerSecond: e.cfg.Sync.PagesPerSecond,
		MaxPages:       e.cfg.Sync.MaxPages,
	})
	for _, l := range e.cfg.Sync.Listings {
		src, err := syncer.NewSource(c, l.Kind, l.User, l.Query)
		if err != nil {
			return err
		}
		if *reset {
			state.Reset(src.Name())
		}
		m.RegisterSource(src)
	}

	results, runErr := m.Run(ctx)
	tweets, users, err := db.Counts(ctx)
	if err == nil {
		slog.Info("store totals", slog.Int("tweets", tweets), slog.Int("users", users))
	}
	for _, r := range results {
		status := "partial"
		switch {
		case r.Err != nil:
			status = "failed"
		case r.Complete:
			status = "complete"
		}
		fmt.Printf("%-30s %-8s pages=%d items=%d\n", r.Listing, status, r.Pages, r.Items)
	}
	return runErr
}

func runPost(ctx context.Context, e *env, args []string) error {
	flags := flag.NewFlagSet("post", flag.ContinueOnError)
	replyTo := flags.String("reply-to", "", "tweet ID or URL to reply to")
	quote := flags.String("quote", "", "tweet ID or URL to quote")
	if err := flags.Parse(args); err != nil {
		return err
	}
	var opts twitter.PostOptions
	for dst, in := range map[*string]string{&opts.ReplyTo: *replyTo, &opts.QuoteTweetID: *quote} {
		if in == "" {
			continue
		}
		id, err := twitter.ParseTweetID(in)
		if err != nil {
			return err
		}
		*dst = id.Value
	}
	c, err := e.Client(ctx)
	if err != nil {
		return err
	}
	res, err := c.PostTweet(ctx, strings.Join(flags.Args(), " "), opts)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func toggleCmd(action func(*twitter.Client, context.Context, string) (bool, error)) func(context.Context, *env, []string) error {
	return func(ctx context.Context, e *env, args []string) error {
		tweet, err := oneArg(args)
		if err != nil {
			return err
		}
		c, err := e.Client(ctx)
		if err != nil {
			return err
		}
		state, err := action(c, ctx, tweet)
		if err != nil {
			return err
		}
		fmt.Println(state)
		return nil
	}
}

func runAuthURL(_ context.Context, e *env, _ []string) error {
	if !e.cfg.OAuth2.Enabled() {
		return fmt.Errorf("oauth2 client ID not configured (set %s)", config.EnvClientID)
	}
	state, verifier := auth.GenerateState(), auth.NewVerifier()
	fmt.Fprintln(os.Stderr, "Open this URL, approve access, then run:")
	fmt.Fprintf(os.Stderr, "  xsync auth-exchange -verifier %s -code <code from redirect>\n\n", verifier)
	fmt.Println(e.oauth2().AuthCodeURL(state, verifier))
	slog.Debug("authorization started", slog.String("state", state))
	return nil
}

func runAuthExchange(ctx context.Context, e *env, args []string) error {
	flags := flag.NewFlagSet("auth-exchange", flag.ContinueOnError)
	code := flags.String("code", "", "authorization code from the redirect")
	verifier := flags.String("verifier", "", "PKCE verifier printed by auth-url")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *code == "" || *verifier == "" {
		return fmt.Errorf("%w: -code and -verifier are required", errUsage)
	}
	if _, err := e.oauth2().Exchange(ctx, *code, *verifier); err != nil {
		return err
	}
	slog.Info("token stored", slog.String("path", e.cfg.OAuth2.TokenPath))
	return nil
}
