// Package syncer drives paginated listings across process runs. Continuations are
// persisted per listing so an interrupted sync resumes where it stopped, and
// page invocations are paced on the host side.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	twitter "github.com/anatolykoptev/go-twitter-sync"
)

// Sink receives fetched pages.
type Sink interface {
	SaveTweets(ctx context.Context, tweets []*twitter.Tweet) error
	SaveUsers(ctx context.Context, users []*twitter.User) error
	MarkListed(ctx context.Context, listing, runID string, itemIDs []string) error
}

// Options configures a Manager.
type Options struct {
	// PagesPerSecond paces page fetches across all listings. Default: 1.
	PagesPerSecond float64
	// MaxPages caps the pages fetched per listing in one run. Default: 10.
	MaxPages int
}

func (o *Options) defaults() {
	if o.PagesPerSecond <= 0 {
		o.PagesPerSecond = 1
	}
	if o.MaxPages <= 0 {
		o.MaxPages = 10
	}
}

// Result summarizes one listing in one run.
type Result struct {
	Listing  string
	Pages    int
	Items    int
	Complete bool // the pass reached the end of the listing
	Err      error
}

// Manager runs registered sources against a sink.
type Manager struct {
	state    *State
	sink     Sink
	limiter  *rate.Limiter
	maxPages int
	sources  []Source
}

func NewManager(state *State, sink Sink, opts Options) *Manager {
	opts.defaults()
	return &Manager{
		state:    state,
		sink:     sink,
		limiter:  rate.NewLimiter(rate.Limit(opts.PagesPerSecond), 1),
		maxPages: opts.MaxPages,
	}
}

func (m *Manager) RegisterSource(src Source) {
	m.sources = append(m.sources, src)
	slog.Debug("registered source", slog.String("source", src.Name()))
}

// Run syncs every source once under a fresh run ID. A failing source does not
// stop the others; all failures are joined into the returned error.
func (m *Manager) Run(ctx context.Context) ([]Result, error) {
	runID := uuid.NewString()
	log := slog.With(slog.String("run_id", runID))

	var (
		results []Result
		errs    []error
	)
	for _, src := range m.sources {
		res := m.syncSource(ctx, src, runID)
		results = append(results, res)
		if res.Err != nil {
			log.Error("sync failed", slog.String("source", res.Listing), slog.Any("error", res.Err))
			errs = append(errs, fmt.Errorf("%s: %w", res.Listing, res.Err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		log.Info("listing synced",
			slog.String("source", res.Listing),
			slog.Int("pages", res.Pages),
			slog.Int("items", res.Items),
			slog.Bool("complete", res.Complete))
	}
	return results, errors.Join(errs...)
}

func (m *Manager) syncSource(ctx context.Context, src Source, runID string) Result {
	name := src.Name()
	res := Result{Listing: name}
	cp := m.state.Get(name)

	for res.Pages < m.maxPages {
		if err := m.limiter.Wait(ctx); err != nil {
			res.Err = err
			return res
		}

		newPass := cp.Cursor == ""
		batch, err := src.Page(ctx, cp.Cursor, cp.Floor)
		if err != nil {
			// The checkpoint still holds the last good cursor, so the next run retries this page.
			res.Err = err
			return res
		}
		if err := m.store(ctx, name, runID, batch); err != nil {
			res.Err = err
			return res
		}
		res.Pages++
		res.Items += len(batch.Tweets) + len(batch.Users)

		if newPass {
			cp.PendingFloor = ""
			if len(batch.Tweets) > 0 {
				cp.PendingFloor = batch.Tweets[0].ID
			}
		}
		cp.Cursor = batch.Next
		cp.RunID = runID
		cp.UpdatedAt = time.Now().UTC()
		if batch.Next == "" {
			if cp.PendingFloor != "" {
				cp.Floor = cp.PendingFloor
			}
			cp.PendingFloor = ""
			cp.Passes++
			res.Complete = true
		}

		m.state.Set(name, cp)
		if err := m.state.Save(); err != nil {
			slog.Warn("failed to save state", slog.String("source", name), slog.Any("error", err))
		}
		if res.Complete {
			break
		}
	}
	return res
}

func (m *Manager) store(ctx context.Context, listing, runID string, b Batch) error {
	if len(b.Tweets) > 0 {
		if err := m.sink.SaveTweets(ctx, b.Tweets); err != nil {
			return fmt.Errorf("save tweets: %w", err)
		}
	}
	if len(b.Users) > 0 {
		if err := m.sink.SaveUsers(ctx, b.Users); err != nil {
			return fmt.Errorf("save users: %w", err)
		}
	}
	if ids := b.IDs(); len(ids) > 0 {
		if err := m.sink.MarkListed(ctx, listing, runID, ids); err != nil {
			return fmt.Errorf("mark listed: %w", err)
		}
	}
	return nil
}
