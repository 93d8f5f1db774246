package twitter

import (
	"context"
	"log/slog"
)

// pageSpec describes one paginated listing.
type pageSpec[R, T any] struct {
	res   Resource
	first string // URL of the first page
	join  func(*listResponse[R]) ([]T, error)

	// stop, when set, suppresses the continuation for the fetched page.
	stop func(raws []R) bool
	// bounded listings fetch the first page once and never continue.
	bounded bool
}

// fetchPage performs exactly one fetch. Without a cursor it loads spec.first;
// with one it loads the cursor verbatim, since the cursor already encodes the
// parameters. The continuation is the fetched URL with the resource's page-token
// parameter set to the response's next_token; no token means end of listing.
func fetchPage[R, T any](ctx context.Context, c *Client, spec pageSpec[R, T], cur Cursor) (Page[T], error) {
	u := spec.first
	if cur != "" && !spec.bounded {
		if err := c.checkCursor(cur); err != nil {
			return Page[T]{}, err
		}
		u = string(cur)
	}

	body, err := c.do(ctx, spec.res, "GET", u, nil)
	if err != nil {
		return Page[T]{}, err
	}
	raw, err := parseList[R](spec.res.Name, body)
	if err != nil {
		return Page[T]{}, err
	}
	if len(raw.Errors) > 0 {
		slog.Debug("partial errors in page",
			slog.String("endpoint", spec.res.Name),
			slog.Int("count", len(raw.Errors)),
			slog.String("first", raw.Errors[0].Detail))
	}

	items, err := spec.join(raw)
	if err != nil {
		return Page[T]{}, err
	}
	page := Page[T]{Items: items}

	switch {
	case spec.bounded, raw.Meta.NextToken == "":
	case spec.stop != nil && spec.stop(raw.Data):
		slog.Debug("continuation suppressed", slog.String("endpoint", spec.res.Name))
	default:
		next, err := withQueryParam(u, spec.res.PageTokenParam, raw.Meta.NextToken)
		if err != nil {
			return Page[T]{}, err
		}
		page.Next = Cursor(next)
	}
	return page, nil
}

// joinTweets returns the join step for tweet listings, honoring SkipOrphanTweets.
func (c *Client) joinTweets(raw *listResponse[RawTweet]) ([]*Tweet, error) {
	return JoinTweets(raw.Data, NewAnnotationInfo(raw.Includes), c.cfg.SkipOrphanTweets)
}

func joinUsers(raw *listResponse[RawUser]) ([]*User, error) {
	return JoinUsers(raw.Data, raw.Includes), nil
}

// containsID reports whether any raw tweet has the given ID.
func containsID(id string) func([]RawTweet) bool {
	return func(raws []RawTweet) bool {
		for _, t := range raws {
			if t.ID == id {
				return true
			}
		}
		return false
	}
}
