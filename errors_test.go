package twitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		problemType string
		expected    ErrorClass
	}{
		{"ok", 200, "", ClassNone},
		{"rate limited", 429, "about:blank", ClassRateLimited},
		{"unauthorized", 401, "about:blank", ClassUnauthorized},
		{"forbidden", 403, "", ClassForbidden},
		{"not found status", 404, "", ClassNotFound},
		{"bad request", 400, "", ClassInvalidRequest},
		{"server", 503, "", ClassServer},
		{"not found type", 200, "https://api.twitter.com/2/problems/resource-not-found", ClassNotFound},
		{"not authorized type", 200, "https://api.twitter.com/2/problems/not-authorized-for-resource", ClassForbidden},
		{"client forbidden type", 403, "https://api.twitter.com/2/problems/client-forbidden", ClassForbidden},
		{"usage capped type", 429, "https://api.twitter.com/2/problems/usage-capped", ClassRateLimited},
		{"invalid request type", 400, "https://api.twitter.com/2/problems/invalid-request", ClassInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyError(tt.status, tt.problemType))
		})
	}
}

func TestNewAPIError(t *testing.T) {
	e := newAPIError("Tweet", 400, []byte(`{
		"errors": [{"parameters": {"id": ["x"]}, "message": "The id query parameter value [x] is not valid"}],
		"title": "Invalid Request",
		"detail": "One or more parameters to your request was invalid.",
		"type": "https://api.twitter.com/2/problems/invalid-request"
	}`), nil)
	assert.Equal(t, ClassInvalidRequest, e.Class)
	assert.Equal(t, "Invalid Request", e.Title)
	assert.Equal(t, "Tweet HTTP 400: One or more parameters to your request was invalid.", e.Error())

	e = newAPIError("Tweet", 500, []byte("<html>oops</html>"), nil)
	assert.Equal(t, ClassServer, e.Class)
	assert.Equal(t, "<html>oops</html>", e.Detail)

	e = newAPIError("Tweet", 400, []byte(`{"errors":[{"message":"bad thing"}]}`), nil)
	assert.Equal(t, "bad thing", e.Detail)
}

func TestNewAPIError_RateLimitReset(t *testing.T) {
	e := newAPIError("Search", 429, []byte(`{"title":"Too Many Requests"}`), map[string]string{"x-rate-limit-reset": "1700000000"})
	assert.Equal(t, ClassRateLimited, e.Class)
	assert.Equal(t, time.Unix(1700000000, 0), e.RateLimitReset)

	e = newAPIError("Search", 500, nil, map[string]string{"x-rate-limit-reset": "1700000000"})
	assert.True(t, e.RateLimitReset.IsZero(), "reset only set when rate limited")
}

func TestParseRateLimitReset(t *testing.T) {
	// Valid timestamp
	ts := parseRateLimitReset("1700000000")
	assert.Equal(t, int64(1700000000), ts.Unix())

	// Empty, fallback to ~15 min
	before := time.Now()
	ts = parseRateLimitReset("")
	assert.WithinDuration(t, before.Add(15*time.Minute), ts, 5*time.Second)

	// Invalid
	ts = parseRateLimitReset("abc")
	assert.True(t, ts.After(before))
}

func TestPartialError(t *testing.T) {
	assert.Nil(t, partialError("Tweet", nil))

	e := partialError("Tweet", []apiProblem{{
		Title:  "Authorization Error",
		Detail: "Sorry, you are not authorized to see the Tweet with id: [1].",
		Type:   "https://api.twitter.com/2/problems/not-authorized-for-resource",
	}})
	assert.Equal(t, ClassForbidden, e.Class)
	assert.Equal(t, 0, e.Status)
	assert.Equal(t, "Tweet: Sorry, you are not authorized to see the Tweet with id: [1].", e.Error())
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&InvalidHandleError{Input: "spencer c"}).Error(), `"spencer c"`)
	assert.Contains(t, (&InvalidTweetIDError{Input: "abc"}).Error(), `"abc"`)
	assert.Equal(t, "limit 3 out of range: must be between 5 and 100", (&LimitError{Limit: 3, Min: 5, Max: 100}).Error())
	assert.Equal(t, "tweet 1: author 2 not found in response", (&MissingAuthorError{TweetID: "1", AuthorID: "2"}).Error())
	assert.Equal(t, "rate-limited", ClassRateLimited.String())
	assert.Equal(t, "none", ErrorClass(99).String())
}
