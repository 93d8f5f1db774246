package twitter

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
)

// Bounds for explicit result-count limits and batch lookups.
const (
	minLimit     = 5
	maxLimit     = 100
	maxBatchSize = 100
)

// Me returns the authenticated user. It needs user context.
func (c *Client) Me(ctx context.Context) (*User, error) {
	body, err := c.do(ctx, ResMe, "GET", c.url(ResMe.Path, ResMe.params()), nil)
	if err != nil {
		return nil, err
	}
	u, err := parseUser(ResMe.Name, body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, ErrNoAuthenticatedUser
		}
		return nil, err
	}
	if u.ID == "" {
		return nil, ErrNoAuthenticatedUser
	}
	return u, nil
}

// GetUser looks up one user by numeric ID, handle, @handle or profile URL.
func (c *Client) GetUser(ctx context.Context, input string) (*User, error) {
	ref, err := ParseUserRef(input)
	if err != nil {
		return nil, err
	}
	res, key := ResUserByID, ref.ID
	if ref.ID == "" {
		res, key = ResUserByUsername, ref.Handle
	}
	body, err := c.do(ctx, res, "GET", c.url(res.path(key), res.params()), nil)
	if err != nil {
		return nil, err
	}
	return parseUser(res.Name, body)
}

// GetUsers looks up up to 100 users. IDs and handles may be mixed; users found by
// ID come first. Users the API cannot return are omitted.
func (c *Client) GetUsers(ctx context.Context, inputs ...string) ([]*User, error) {
	if len(inputs) == 0 || len(inputs) > maxBatchSize {
		return nil, &LimitError{Limit: len(inputs), Min: 1, Max: maxBatchSize}
	}
	var ids, handles []string
	for _, in := range inputs {
		ref, err := ParseUserRef(in)
		if err != nil {
			return nil, err
		}
		if ref.ID != "" {
			ids = append(ids, ref.ID)
		} else {
			handles = append(handles, ref.Handle)
		}
	}

	var users []*User
	for _, q := range []struct {
		res  Resource
		key  string
		vals []string
	}{{ResUsersByIDs, "ids", ids}, {ResUsersByNames, "usernames", handles}} {
		if len(q.vals) == 0 {
			continue
		}
		p := q.res.params()
		p[q.key] = q.vals
		body, err := c.do(ctx, q.res, "GET", c.url(q.res.Path, p), nil)
		if err != nil {
			return nil, err
		}
		raw, err := parseList[RawUser](q.res.Name, body)
		if err != nil {
			return nil, err
		}
		users = append(users, JoinUsers(raw.Data, raw.Includes)...)
	}
	return users, nil
}

// GetTweet looks up one tweet by ID or status URL.
func (c *Client) GetTweet(ctx context.Context, input string) (*Tweet, error) {
	id, err := ParseTweetID(input)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, ResTweet, "GET", c.url(ResTweet.path(id.Value), ResTweet.params()), nil)
	if err != nil {
		return nil, err
	}
	return parseTweet(ResTweet.Name, body)
}

// GetTweets looks up up to 100 tweets. Tweets the API cannot return are omitted.
func (c *Client) GetTweets(ctx context.Context, inputs ...string) ([]*Tweet, error) {
	if len(inputs) == 0 || len(inputs) > maxBatchSize {
		return nil, &LimitError{Limit: len(inputs), Min: 1, Max: maxBatchSize}
	}
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		id, err := ParseTweetID(in)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id.Value)
	}
	p := ResTweets.params()
	p["ids"] = ids
	body, err := c.do(ctx, ResTweets, "GET", c.url(ResTweets.Path, p), nil)
	if err != nil {
		return nil, err
	}
	raw, err := parseList[RawTweet](ResTweets.Name, body)
	if err != nil {
		return nil, err
	}
	return c.joinTweets(raw)
}

// ProfileTweets returns one page of a user's tweets, newest first.
// With f.Limit set the request is bounded: Limit must be in [5, 100], exactly one
// page is fetched and no continuation is returned.
func (c *Client) ProfileTweets(ctx context.Context, user string, f ProfileFilter, cur Cursor) (Page[*Tweet], error) {
	if f.Limit != 0 && (f.Limit < minLimit || f.Limit > maxLimit) {
		return Page[*Tweet]{}, &LimitError{Limit: f.Limit, Min: minLimit, Max: maxLimit}
	}
	ref, err := ParseUserRef(user)
	if err != nil {
		return Page[*Tweet]{}, err
	}
	bounded := f.Limit != 0
	spec := pageSpec[RawTweet, *Tweet]{res: ResProfileTweet, join: c.joinTweets, bounded: bounded}
	if cur == "" || bounded {
		id, err := c.userID(ctx, ref)
		if err != nil {
			return Page[*Tweet]{}, err
		}
		p := mergeParams(ResProfileTweet.params(), f.params())
		if bounded {
			p["max_results"] = f.Limit
		}
		spec.first = c.url(ResProfileTweet.path(id), p)
	}
	return fetchPage(ctx, c, spec, cur)
}

// LikedTweets returns one page of tweets liked by a user. When the page contains
// f.FloorID the listing is treated as caught up and no continuation is returned.
func (c *Client) LikedTweets(ctx context.Context, user string, f LikedFilter, cur Cursor) (Page[*Tweet], error) {
	ref, err := ParseUserRef(user)
	if err != nil {
		return Page[*Tweet]{}, err
	}
	spec := pageSpec[RawTweet, *Tweet]{res: ResLikedTweets, join: c.joinTweets}
	if f.FloorID != "" {
		spec.stop = containsID(f.FloorID)
	}
	if cur == "" {
		id, err := c.userID(ctx, ref)
		if err != nil {
			return Page[*Tweet]{}, err
		}
		spec.first = c.url(ResLikedTweets.path(id), ResLikedTweets.params())
	}
	return fetchPage(ctx, c, spec, cur)
}

// SearchTweets returns one page of recent tweets matching query.
func (c *Client) SearchTweets(ctx context.Context, query string, f TweetFilter, cur Cursor) (Page[*Tweet], error) {
	spec := pageSpec[RawTweet, *Tweet]{res: ResSearch, join: c.joinTweets}
	if cur == "" {
		if strings.TrimSpace(query) == "" {
			return Page[*Tweet]{}, ErrEmptyQuery
		}
		p := mergeParams(ResSearch.params(), f.params())
		p["query"] = query
		spec.first = c.url(ResSearch.Path, p)
	}
	return fetchPage(ctx, c, spec, cur)
}

// Followers returns one page of accounts following user.
func (c *Client) Followers(ctx context.Context, user string, cur Cursor) (Page[*User], error) {
	return c.userList(ctx, ResFollowers, user, cur)
}

// Following returns one page of accounts user follows.
func (c *Client) Following(ctx context.Context, user string, cur Cursor) (Page[*User], error) {
	return c.userList(ctx, ResFollowing, user, cur)
}

func (c *Client) userList(ctx context.Context, res Resource, user string, cur Cursor) (Page[*User], error) {
	ref, err := ParseUserRef(user)
	if err != nil {
		return Page[*User]{}, err
	}
	spec := pageSpec[RawUser, *User]{res: res, join: joinUsers}
	if cur == "" {
		id, err := c.userID(ctx, ref)
		if err != nil {
			return Page[*User]{}, err
		}
		spec.first = c.url(res.path(id), res.params())
	}
	return fetchPage(ctx, c, spec, cur)
}

// Bookmarks returns one page of the authenticated user's bookmarks.
func (c *Client) Bookmarks(ctx context.Context, cur Cursor) (Page[*Tweet], error) {
	return c.selfTweets(ctx, ResBookmarks, nil, cur)
}

// HomeTimeline returns one page of the authenticated user's reverse-chronological timeline.
func (c *Client) HomeTimeline(ctx context.Context, f TweetFilter, cur Cursor) (Page[*Tweet], error) {
	return c.selfTweets(ctx, ResHomeTimeline, f.params(), cur)
}

// selfTweets lists a self-scoped resource. The identity lookup only happens on the
// first page; later pages already carry the user ID in the cursor.
func (c *Client) selfTweets(ctx context.Context, res Resource, filter Params, cur Cursor) (Page[*Tweet], error) {
	if !c.HasUserContext() {
		return Page[*Tweet]{}, fmt.Errorf("%s: %w", res.Name, ErrUserContextRequired)
	}
	spec := pageSpec[RawTweet, *Tweet]{res: res, join: c.joinTweets}
	if cur == "" {
		me, err := c.Me(ctx)
		if err != nil {
			return Page[*Tweet]{}, err
		}
		spec.first = c.url(res.path(me.ID), mergeParams(res.params(), filter))
	}
	return fetchPage(ctx, c, spec, cur)
}

// userID resolves a reference to a numeric user ID, looking up handles.
func (c *Client) userID(ctx context.Context, ref UserRef) (string, error) {
	if ref.ID != "" {
		return ref.ID, nil
	}
	u, err := c.GetUser(ctx, ref.Handle)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// mergeParams copies extra into base, returning base.
func mergeParams(base, extra Params) Params {
	maps.Copy(base, extra)
	return base
}
