package twitter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileTweets_FirstPageAndContinuation(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/users/12/tweets", 200, tweetsPage)
	c := newTestClient(t, api)

	page, err := c.ProfileTweets(context.Background(), "12", ProfileFilter{TweetFilter: TweetFilter{SinceID: "50"}}, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "spencerc99", page.Items[0].Author.Username)

	calls := api.Calls()
	require.Len(t, calls, 1)
	q := query(t, calls[0].URL)
	assert.Equal(t, "100", q.Get("max_results"))
	assert.Equal(t, "50", q.Get("since_id"))
	assert.Equal(t, "author_id,attachments.media_keys,in_reply_to_user_id", q.Get("expansions"))
	assert.Contains(t, q.Get("tweet.fields"), "public_metrics")
	assert.Contains(t, q.Get("media.fields"), "variants")
	assert.False(t, q.Has("pagination_token"))

	require.False(t, page.Done())
	next := query(t, string(page.Next))
	assert.Equal(t, "tok2", next.Get("pagination_token"))
	assert.Equal(t, "50", next.Get("since_id"), "cursor carries the original parameters")
	assert.True(t, strings.HasPrefix(string(page.Next), testBase+"/users/12/tweets?"))
}

func TestProfileTweets_CursorFetchedVerbatim(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/users/12/tweets", 200, lastTweetsPage)
	c := newTestClient(t, api)

	cur := Cursor(testBase + "/users/12/tweets?max_results=100&pagination_token=tok2")
	page, err := c.ProfileTweets(context.Background(), "@spencerc99", ProfileFilter{}, cur)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Done(), "no next_token means end of listing")

	calls := api.Calls()
	require.Len(t, calls, 1, "handle lookup is skipped when resuming")
	assert.Equal(t, string(cur), calls[0].URL)

	// Re-fetching the last page is stable.
	again, err := c.ProfileTweets(context.Background(), "@spencerc99", ProfileFilter{}, cur)
	require.NoError(t, err)
	assert.True(t, again.Done())
	assert.Equal(t, page.Items[0].ID, again.Items[0].ID)
}

func TestProfileTweets_ResolvesHandle(t *testing.T) {
	api := newFakeAPI().
		on("GET", "/2/users/by/username/spencerc99", 200, `{"data":{"id":"12","name":"Spencer","username":"spencerc99"}}`).
		on("GET", "/2/users/12/tweets", 200, lastTweetsPage)
	c := newTestClient(t, api)

	_, err := c.ProfileTweets(context.Background(), "https://twitter.com/spencerc99", ProfileFilter{}, "")
	require.NoError(t, err)
	calls := api.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0].URL, "/users/by/username/spencerc99")
	assert.Contains(t, calls[1].URL, "/users/12/tweets")
}

func TestProfileTweets_Bounded(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/users/12/tweets", 200, tweetsPage)
	c := newTestClient(t, api)

	page, err := c.ProfileTweets(context.Background(), "12", ProfileFilter{Limit: 10}, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.Done(), "bounded requests never continue")

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "10", query(t, calls[0].URL).Get("max_results"))
}

func TestProfileTweets_LimitOutOfRange(t *testing.T) {
	api := newFakeAPI()
	c := newTestClient(t, api)

	for _, limit := range []int{1, 4, 101, -3} {
		_, err := c.ProfileTweets(context.Background(), "12", ProfileFilter{Limit: limit}, "")
		var limitErr *LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, limit, limitErr.Limit)
	}
	assert.Empty(t, api.Calls(), "validation happens before any request")
}

func TestProfileTweets_InvalidHandle(t *testing.T) {
	api := newFakeAPI()
	c := newTestClient(t, api)

	_, err := c.ProfileTweets(context.Background(), "spencer c", ProfileFilter{}, "")
	assert.ErrorAs(t, err, new(*InvalidHandleError))
	assert.Empty(t, api.Calls())
}

func TestProfileTweets_DateWindow(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/users/12/tweets", 200, lastTweetsPage)
	c := newTestClient(t, api)

	d := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	_, err := c.ProfileTweets(context.Background(), "12", ProfileFilter{TweetFilter: TweetFilter{Date: d}}, "")
	require.NoError(t, err)
	q := query(t, api.Calls()[0].URL)
	assert.Equal(t, "2024-03-15T00:00:00.000Z", q.Get("start_time"))
	assert.Equal(t, "2024-03-15T23:59:59.000Z", q.Get("end_time"))
}

func TestProfileTweets_MissingAuthor(t *testing.T) {
	body := `{
		"data": [{"id": "1", "text": "a", "author_id": "12"}, {"id": "2", "text": "b", "author_id": "404"}],
		"includes": {"users": [{"id": "12", "name": "A", "username": "a"}]},
		"meta": {"next_token": "n"}
	}`
	api := newFakeAPI().on("GET", "/2/users/12/tweets", 200, body)

	_, err := newTestClient(t, api).ProfileTweets(context.Background(), "12", ProfileFilter{}, "")
	var missing *MissingAuthorError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "404", missing.AuthorID)

	skipping := newTestClient(t, api, func(cfg *ClientConfig) { cfg.SkipOrphanTweets = true })
	page, err := skipping.ProfileTweets(context.Background(), "12", ProfileFilter{}, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "1", page.Items[0].ID)
	assert.False(t, page.Done())
}

func TestLikedTweets_OverlapSuppressesContinuation(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/users/12/liked_tweets", 200, tweetsPage)
	c := newTestClient(t, api)

	page, err := c.LikedTweets(context.Background(), "12", LikedFilter{FloorID: "100"}, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.Done(), "floor id seen, treat as caught up")
	assert.False(t, query(t, api.Calls()[0].URL).Has("since_id"))

	page, err = c.LikedTweets(context.Background(), "12", LikedFilter{FloorID: "7"}, "")
	require.NoError(t, err)
	assert.Equal(t, "tok2", query(t, string(page.Next)).Get("pagination_token"))

	page, err = c.LikedTweets(context.Background(), "12", LikedFilter{}, "")
	require.NoError(t, err)
	assert.False(t, page.Done())
}

func TestSearchTweets(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/tweets/search/recent", 200, tweetsPage)
	c := newTestClient(t, api)

	page, err := c.SearchTweets(context.Background(), "from:spencerc99 -is:retweet", TweetFilter{}, "")
	require.NoError(t, err)
	assert.Equal(t, "from:spencerc99 -is:retweet", query(t, api.Calls()[0].URL).Get("query"))

	next := query(t, string(page.Next))
	assert.Equal(t, "tok2", next.Get("next_token"))
	assert.False(t, next.Has("pagination_token"))

	_, err = c.SearchTweets(context.Background(), "   ", TweetFilter{}, "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestFetchPage_RejectsForeignCursor(t *testing.T) {
	api := newFakeAPI()
	c := newTestClient(t, api)

	_, err := c.ProfileTweets(context.Background(), "12", ProfileFilter{}, "https://evil.example/2/users/12/tweets?pagination_token=x")
	assert.ErrorIs(t, err, ErrInvalidCursor)
	assert.Empty(t, api.Calls())
}

func TestFollowers(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/users/12/followers", 200, `{
		"data": [{"id": "1", "name": "A", "username": "a", "pinned_tweet_id": "500",
		          "profile_image_url": "https://pbs.twimg.com/profile_images/1/a_normal.png"}],
		"includes": {"tweets": [{"id": "500", "text": "pinned", "author_id": "1"}]},
		"meta": {"result_count": 1, "next_token": "f2"}
	}`)
	c := newTestClient(t, api)

	page, err := c.Followers(context.Background(), "12", "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "500", page.Items[0].PinnedTweetID)
	assert.Equal(t, "https://pbs.twimg.com/profile_images/1/a.png", page.Items[0].ProfileImageURL)
	assert.Equal(t, "1000", query(t, api.Calls()[0].URL).Get("max_results"))
	assert.Equal(t, "f2", query(t, string(page.Next)).Get("pagination_token"))
}

func TestBookmarks_RequiresUserContext(t *testing.T) {
	api := newFakeAPI()
	c := newTestClient(t, api, func(cfg *ClientConfig) { cfg.UserFetcher = nil })

	_, err := c.Bookmarks(context.Background(), "")
	assert.ErrorIs(t, err, ErrUserContextRequired)
	_, err = c.HomeTimeline(context.Background(), TweetFilter{}, "")
	assert.ErrorIs(t, err, ErrUserContextRequired)
	assert.Empty(t, api.Calls())
}

func TestBookmarks_LooksUpIdentityOnFirstPageOnly(t *testing.T) {
	api := newFakeAPI().
		on("GET", "/2/users/me", 200, meResponse).
		on("GET", "/2/users/42/bookmarks", 200, tweetsPage)
	c := newTestClient(t, api)

	page, err := c.Bookmarks(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, api.Calls(), 2)

	_, err = c.Bookmarks(context.Background(), page.Next)
	require.NoError(t, err)
	calls := api.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, string(page.Next), calls[2].URL)
}

func TestHomeTimeline_NoIdentity(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/users/me", 200, `{"errors":[{"title":"Not Found Error","detail":"Could not find user"}]}`)
	c := newTestClient(t, api)

	_, err := c.HomeTimeline(context.Background(), TweetFilter{}, "")
	assert.ErrorIs(t, err, ErrNoAuthenticatedUser)
	assert.Len(t, api.Calls(), 1)
}

func TestGetUser(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/users/by/username/spencerc99", 200, `{
		"data": {"id": "12", "name": "Spencer", "username": "spencerc99", "pinned_tweet_id": "9",
		         "public_metrics": {"followers_count": 7}},
		"includes": {"tweets": [{"id": "9", "text": "pinned"}]}
	}`)
	c := newTestClient(t, api)

	u, err := c.GetUser(context.Background(), "@spencerc99")
	require.NoError(t, err)
	assert.Equal(t, "12", u.ID)
	assert.Equal(t, 7, u.FollowersCount)
	assert.Equal(t, "9", u.PinnedTweetID)
	assert.Equal(t, "pinned_tweet_id", query(t, api.Calls()[0].URL).Get("expansions"))
}

func TestGetUser_NotFound(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/users/by/username/ghost", 200, `{
		"errors": [{"title": "Not Found Error", "detail": "Could not find user with username: [ghost].",
		            "type": "https://api.twitter.com/2/problems/resource-not-found"}]
	}`)
	_, err := newTestClient(t, api).GetUser(context.Background(), "ghost")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ClassNotFound, apiErr.Class)
	assert.Contains(t, apiErr.Error(), "ghost")
}

func TestGetUsers_MixedRefs(t *testing.T) {
	api := newFakeAPI().
		on("GET", "/2/users", 200, `{"data":[{"id":"1","name":"A","username":"a"}]}`).
		on("GET", "/2/users/by", 200, `{"data":[{"id":"2","name":"B","username":"b"}]}`)
	c := newTestClient(t, api)

	users, err := c.GetUsers(context.Background(), "1", "@b")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "1", users[0].ID)
	assert.Equal(t, "2", users[1].ID)

	calls := api.Calls()
	assert.Equal(t, "1", query(t, calls[0].URL).Get("ids"))
	assert.Equal(t, "b", query(t, calls[1].URL).Get("usernames"))

	_, err = c.GetUsers(context.Background())
	assert.ErrorAs(t, err, new(*LimitError))
}

func TestGetTweet(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/tweets/1541857534234984450", 200, `{
		"data": {"id": "1541857534234984450", "text": "hi", "author_id": "12"},
		"includes": {"users": [{"id": "12", "name": "Spencer", "username": "spencerc99"}]}
	}`)
	c := newTestClient(t, api)

	tw, err := c.GetTweet(context.Background(), "https://twitter.com/spencerc99/status/1541857534234984450?s=20")
	require.NoError(t, err)
	assert.Equal(t, "https://twitter.com/spencerc99/status/1541857534234984450", tw.URL)

	_, err = c.GetTweet(context.Background(), "abc")
	assert.ErrorAs(t, err, new(*InvalidTweetIDError))
	assert.Len(t, api.Calls(), 1)
}

func TestGetTweets(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/tweets", 200, tweetsPage)
	c := newTestClient(t, api)

	tweets, err := c.GetTweets(context.Background(), "101", "https://x.com/spencerc99/status/100")
	require.NoError(t, err)
	assert.Len(t, tweets, 2)
	assert.Equal(t, "101,100", query(t, api.Calls()[0].URL).Get("ids"))
}

func TestRequest_RateLimited(t *testing.T) {
	type metric struct {
		endpoint             string
		success, rateLimited bool
	}
	var got []metric
	api := newFakeAPI().onRoute("GET", "/2/users/12/tweets", fakeRoute{
		status: 429,
		body:   `{"title":"Too Many Requests","detail":"Too Many Requests","type":"about:blank","status":429}`,
		header: map[string]string{"x-rate-limit-reset": "1700000000"},
	})
	c := newTestClient(t, api, func(cfg *ClientConfig) {
		cfg.MetricsHook = func(endpoint string, success, rateLimited bool) {
			got = append(got, metric{endpoint, success, rateLimited})
		}
	})

	_, err := c.ProfileTweets(context.Background(), "12", ProfileFilter{}, "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ClassRateLimited, apiErr.Class)
	assert.Equal(t, 429, apiErr.Status)
	assert.Equal(t, int64(1700000000), apiErr.RateLimitReset.Unix())
	assert.Len(t, api.Calls(), 1, "no retries")
	assert.Equal(t, []metric{{"ProfileTweets", false, true}}, got)
}

func TestRequest_TransportErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	api := newFakeAPI().onRoute("GET", "/2/users/12/followers", fakeRoute{err: boom})
	c := newTestClient(t, api)

	_, err := c.Followers(context.Background(), "12", "")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, api.Calls(), 1)
}

func TestNewClient_NoCredentials(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.Error(t, err)
}

func TestNewClient_UserContextOnly(t *testing.T) {
	api := newFakeAPI().on("GET", "/2/users/12/followers", 200, `{"data":[]}`)
	c := newTestClient(t, api, func(cfg *ClientConfig) { cfg.AppFetcher = nil })

	page, err := c.Followers(context.Background(), "12", "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.True(t, page.Done())
}
