package twitter

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go-twitter-sync/auth"
)

const testBase = "https://api.test/2"

type fakeCall struct {
	Method string
	URL    string
	Body   string
}

type fakeRoute struct {
	status int
	body   string
	header map[string]string
	err    error
}

// fakeAPI routes requests by method and path and records every call.
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]fakeRoute
	calls  []fakeCall
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{routes: make(map[string]fakeRoute)}
}

func (f *fakeAPI) on(method, path string, status int, body string) *fakeAPI {
	f.routes[method+" "+path] = fakeRoute{status: status, body: body}
	return f
}

func (f *fakeAPI) onRoute(method, path string, r fakeRoute) *fakeAPI {
	f.routes[method+" "+path] = r
	return f
}

func (f *fakeAPI) Fetch(_ context.Context, method, rawURL string, body []byte) (*auth.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{Method: method, URL: rawURL, Body: string(body)})

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	r, ok := f.routes[method+" "+u.Path]
	if !ok {
		return &auth.Response{Status: 404, Body: []byte(`{"title":"Not Found Error","type":"https://api.twitter.com/2/problems/resource-not-found"}`)}, nil
	}
	if r.err != nil {
		return nil, r.err
	}
	return &auth.Response{Status: r.status, Body: []byte(r.body), Header: r.header}, nil
}

func (f *fakeAPI) Calls() []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeCall(nil), f.calls...)
}

// newTestClient wires f as both the app-only and the user-context fetcher.
func newTestClient(t *testing.T, f *fakeAPI, mutate ...func(*ClientConfig)) *Client {
	t.Helper()
	cfg := ClientConfig{BaseURL: testBase, AppFetcher: f, UserFetcher: f}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func query(t *testing.T, rawURL string) url.Values {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u.Query()
}

const tweetsPage = `{
	"data": [
		{"id": "101", "text": "hello & bye\nhttps://t.co/abc", "author_id": "12",
		 "created_at": "2024-03-15T10:00:00.000Z", "conversation_id": "101",
		 "attachments": {"media_keys": ["3_1"]},
		 "public_metrics": {"like_count": 5, "retweet_count": 2, "reply_count": 1, "quote_count": 0}},
		{"id": "100", "text": "reply", "author_id": "12", "in_reply_to_user_id": "13"}
	],
	"includes": {
		"users": [
			{"id": "12", "name": "Spencer", "username": "spencerc99", "verified": true,
			 "profile_image_url": "https://pbs.twimg.com/profile_images/1/abc_normal.jpg"},
			{"id": "13", "name": "Other", "username": "other"}
		],
		"media": [
			{"media_key": "3_1", "type": "photo", "url": "https://pbs.twimg.com/media/x.jpg"},
			{"media_key": "3_2", "type": "photo", "url": "https://pbs.twimg.com/media/unused.jpg"}
		]
	},
	"meta": {"result_count": 2, "next_token": "tok2"}
}`

const lastTweetsPage = `{
	"data": [{"id": "99", "text": "first", "author_id": "12"}],
	"includes": {"users": [{"id": "12", "name": "Spencer", "username": "spencerc99"}]},
	"meta": {"result_count": 1}
}`

const meResponse = `{"data": {"id": "42", "name": "Me", "username": "me_user"}}`
