package syncer

import (
	"context"
	"fmt"

	twitter "github.com/anatolykoptev/go-twitter-sync"
)

// Batch is one fetched page ready for the sink.
type Batch struct {
	Tweets []*twitter.Tweet
	Users  []*twitter.User
	Next   twitter.Cursor
}

// IDs returns the IDs of all items in the batch.
func (b Batch) IDs() []string {
	ids := make([]string, 0, len(b.Tweets)+len(b.Users))
	for _, t := range b.Tweets {
		ids = append(ids, t.ID)
	}
	for _, u := range b.Users {
		ids = append(ids, u.ID)
	}
	return ids
}

// Source is one listing driven page by page. floor is the newest item ID of the
// last completed pass, empty on the first pass.
type Source interface {
	Name() string
	Page(ctx context.Context, cur twitter.Cursor, floor string) (Batch, error)
}

// Lister is the subset of *twitter.Client used by the sources.
type Lister interface {
	ProfileTweets(ctx context.Context, user string, f twitter.ProfileFilter, cur twitter.Cursor) (twitter.Page[*twitter.Tweet], error)
	LikedTweets(ctx context.Context, user string, f twitter.LikedFilter, cur twitter.Cursor) (twitter.Page[*twitter.Tweet], error)
	SearchTweets(ctx context.Context, query string, f twitter.TweetFilter, cur twitter.Cursor) (twitter.Page[*twitter.Tweet], error)
	Followers(ctx context.Context, user string, cur twitter.Cursor) (twitter.Page[*twitter.User], error)
	Following(ctx context.Context, user string, cur twitter.Cursor) (twitter.Page[*twitter.User], error)
	Bookmarks(ctx context.Context, cur twitter.Cursor) (twitter.Page[*twitter.Tweet], error)
	HomeTimeline(ctx context.Context, f twitter.TweetFilter, cur twitter.Cursor) (twitter.Page[*twitter.Tweet], error)
}

type sourceFunc struct {
	name string
	page func(ctx context.Context, cur twitter.Cursor, floor string) (Batch, error)
}

func (s sourceFunc) Name() string { return s.name }

func (s sourceFunc) Page(ctx context.Context, cur twitter.Cursor, floor string) (Batch, error) {
	return s.page(ctx, cur, floor)
}

func tweetBatch(p twitter.Page[*twitter.Tweet], err error) (Batch, error) {
	return Batch{Tweets: p.Items, Next: p.Next}, err
}

func userBatch(p twitter.Page[*twitter.User], err error) (Batch, error) {
	return Batch{Users: p.Items, Next: p.Next}, err
}

// NewSource builds the source for a listing kind. Tweet listings that accept
// since_id use the floor as a newest-id bound; liked tweets use it for overlap
// detection.
func NewSource(l Lister, kind, user, query string) (Source, error) {
	switch kind {
	case "profile":
		return sourceFunc{"profile:" + user, func(ctx context.Context, cur twitter.Cursor, floor string) (Batch, error) {
			f := twitter.ProfileFilter{TweetFilter: twitter.TweetFilter{SinceID: floor}}
			return tweetBatch(l.ProfileTweets(ctx, user, f, cur))
		}}, nil
	case "liked":
		return sourceFunc{"liked:" + user, func(ctx context.Context, cur twitter.Cursor, floor string) (Batch, error) {
			return tweetBatch(l.LikedTweets(ctx, user, twitter.LikedFilter{FloorID: floor}, cur))
		}}, nil
	case "search":
		return sourceFunc{"search:" + query, func(ctx context.Context, cur twitter.Cursor, floor string) (Batch, error) {
			return tweetBatch(l.SearchTweets(ctx, query, twitter.TweetFilter{SinceID: floor}, cur))
		}}, nil
	case "followers":
		return sourceFunc{"followers:" + user, func(ctx context.Context, cur twitter.Cursor, _ string) (Batch, error) {
			return userBatch(l.Followers(ctx, user, cur))
		}}, nil
	case "following":
		return sourceFunc{"following:" + user, func(ctx context.Context, cur twitter.Cursor, _ string) (Batch, error) {
			return userBatch(l.Following(ctx, user, cur))
		}}, nil
	case "bookmarks":
		return sourceFunc{"bookmarks", func(ctx context.Context, cur twitter.Cursor, _ string) (Batch, error) {
			return tweetBatch(l.Bookmarks(ctx, cur))
		}}, nil
	case "home":
		return sourceFunc{"home", func(ctx context.Context, cur twitter.Cursor, floor string) (Batch, error) {
			return tweetBatch(l.HomeTimeline(ctx, twitter.TweetFilter{SinceID: floor}, cur))
		}}, nil
	}
	return nil, fmt.Errorf("unknown listing kind %q", kind)
}
