package twitter

import (
	"context"
	"fmt"
	"strings"
)

// PostOptions are optional settings for PostTweet. Both fields accept a tweet ID
// or a status URL.
type PostOptions struct {
	ReplyTo      string
	QuoteTweetID string
}

// PostResult is the outcome of PostTweet.
type PostResult struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	URL  string `json:"url"`
}

type postPayload struct {
	Text         string     `json:"text"`
	Reply        *replySpec `json:"reply,omitempty"`
	QuoteTweetID string     `json:"quote_tweet_id,omitempty"`
}

type replySpec struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type tweetIDPayload struct {
	TweetID string `json:"tweet_id"`
}

// PostTweet publishes a tweet as the authenticated user.
func (c *Client) PostTweet(ctx context.Context, text string, opts PostOptions) (*PostResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	payload := postPayload{Text: text}
	if opts.ReplyTo != "" {
		id, err := ParseTweetID(opts.ReplyTo)
		if err != nil {
			return nil, err
		}
		payload.Reply = &replySpec{InReplyToTweetID: id.Value}
	}
	if opts.QuoteTweetID != "" {
		id, err := ParseTweetID(opts.QuoteTweetID)
		if err != nil {
			return nil, err
		}
		payload.QuoteTweetID = id.Value
	}

	me, err := c.actingUser(ctx, ResPostTweet)
	if err != nil {
		return nil, err
	}
	raw, err := c.act(ctx, ResPostTweet, c.url(ResPostTweet.Path, nil), payload)
	if err != nil {
		return nil, err
	}
	if raw.Data.ID == "" {
		return nil, &APIError{Endpoint: ResPostTweet.Name, Detail: "response has no tweet id"}
	}
	return &PostResult{ID: raw.Data.ID, Text: raw.Data.Text, URL: TweetURL(me.Username, raw.Data.ID)}, nil
}

// LikeTweet likes a tweet and returns the resulting liked state.
func (c *Client) LikeTweet(ctx context.Context, tweet string) (bool, error) {
	return c.toggle(ctx, ResLike, tweet, true)
}

// UnlikeTweet removes a like and returns the resulting liked state (false on success).
func (c *Client) UnlikeTweet(ctx context.Context, tweet string) (bool, error) {
	return c.toggle(ctx, ResUnlike, tweet, false)
}

// BookmarkTweet bookmarks a tweet and returns the resulting bookmarked state.
func (c *Client) BookmarkTweet(ctx context.Context, tweet string) (bool, error) {
	return c.toggle(ctx, ResBookmark, tweet, true)
}

// RemoveBookmark removes a bookmark and returns the resulting bookmarked state.
func (c *Client) RemoveBookmark(ctx context.Context, tweet string) (bool, error) {
	return c.toggle(ctx, ResRemoveBookmark, tweet, false)
}

// toggle runs a like or bookmark mutation. add selects POST with a body, otherwise
// DELETE with the tweet ID in the path.
func (c *Client) toggle(ctx context.Context, res Resource, tweet string, add bool) (bool, error) {
	id, err := ParseTweetID(tweet)
	if err != nil {
		return false, err
	}
	me, err := c.actingUser(ctx, res)
	if err != nil {
		return false, err
	}

	var (
		u       string
		payload any
	)
	if add {
		u = c.url(res.path(me.ID), nil)
		payload = tweetIDPayload{TweetID: id.Value}
	} else {
		u = c.url(res.path(me.ID, id.Value), nil)
	}
	raw, err := c.act(ctx, res, u, payload)
	if err != nil {
		return false, err
	}

	state := raw.Data.Liked
	if state == nil {
		state = raw.Data.Bookmarked
	}
	if state == nil {
		return false, &APIError{Endpoint: res.Name, Detail: "response has no result state"}
	}
	return *state, nil
}

// actingUser resolves the identity a write action runs as.
func (c *Client) actingUser(ctx context.Context, res Resource) (*User, error) {
	if !c.HasUserContext() {
		return nil, fmt.Errorf("%s: %w", res.Name, ErrUserContextRequired)
	}
	me, err := c.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.Name, err)
	}
	return me, nil
}

func (c *Client) act(ctx context.Context, res Resource, u string, payload any) (*actionResponse, error) {
	body, err := c.do(ctx, res, res.Method, u, payload)
	if err != nil {
		return nil, err
	}
	return parseAction(res.Name, body)
}
