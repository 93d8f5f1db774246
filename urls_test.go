package twitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	got := BuildURL("https://api.twitter.com/2/", "/users/12/tweets", Params{
		"max_results":  100,
		"since_id":     "",
		"until_id":     nil,
		"expansions":   []string{"author_id", "attachments.media_keys"},
		"media.fields": []string{},
		"exclude":      "replies",
		"start_time":   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		"end_time":     time.Time{},
	})
	assert.Equal(t,
		"https://api.twitter.com/2/users/12/tweets?exclude=replies&expansions=author_id%2Cattachments.media_keys&max_results=100&start_time=2024-03-15T00%3A00%3A00.000Z",
		got)
}

func TestBuildURL_NoParams(t *testing.T) {
	assert.Equal(t, "https://api.twitter.com/2/users/me", BuildURL("https://api.twitter.com/2", "/users/me", nil))
	assert.Equal(t, "https://api.twitter.com/2/users/me", BuildURL("https://api.twitter.com/2", "/users/me", Params{"x": ""}))
}

func TestBuildURL_Deterministic(t *testing.T) {
	p := Params{"b": "2", "a": "1", "c": true, "d": int64(7)}
	first := BuildURL("https://h", "/p", p)
	for range 20 {
		assert.Equal(t, first, BuildURL("https://h", "/p", p))
	}
	assert.Equal(t, "https://h/p?a=1&b=2&c=true&d=7", first)
}

func TestBuildURL_BadPath(t *testing.T) {
	assert.Panics(t, func() { BuildURL("https://h", "users/me", nil) })
}

func TestWithQueryParam(t *testing.T) {
	got, err := withQueryParam("https://h/2/users/1/tweets?max_results=100&pagination_token=old", "pagination_token", "new")
	require.NoError(t, err)
	assert.Equal(t, "https://h/2/users/1/tweets?max_results=100&pagination_token=new", got)
}

func TestDateWindow(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	start, end := DateWindow(d)
	assert.Equal(t, "2024-03-15T00:00:00.000Z", start.Format(apiTimeLayout))
	assert.Equal(t, "2024-03-15T23:59:59.000Z", end.Format(apiTimeLayout))

	// Calendar fields are used as given, whatever the location.
	tokyo := time.FixedZone("JST", 9*3600)
	start, end = DateWindow(time.Date(2024, 3, 15, 1, 30, 0, 0, tokyo))
	assert.Equal(t, "2024-03-15T00:00:00.000Z", start.Format(apiTimeLayout))
	assert.Equal(t, "2024-03-15T23:59:59.000Z", end.Format(apiTimeLayout))
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("15/03/2024")
	assert.Error(t, err)
}

func TestTweetFilterParams(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	u := BuildURL(testBase, "/x", TweetFilter{SinceID: "10", Date: d}.params())
	q := query(t, u)
	assert.Equal(t, "10", q.Get("since_id"))
	assert.False(t, q.Has("until_id"))
	assert.Equal(t, "2024-03-15T00:00:00.000Z", q.Get("start_time"))
	assert.Equal(t, "2024-03-15T23:59:59.000Z", q.Get("end_time"))
}
