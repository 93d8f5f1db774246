package twitter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoAuthenticatedUser is returned when the "who am I" lookup yields no identity.
	ErrNoAuthenticatedUser = errors.New("no authenticated user: connect an account with user-context access to run this action")
	// ErrUserContextRequired is returned for self-scoped resources when no user fetcher is configured.
	ErrUserContextRequired = errors.New("this resource acts on your own account and requires user-context authentication")
	// ErrInvalidCursor is returned for continuations that were not produced by this client.
	ErrInvalidCursor = errors.New("invalid continuation: pass back the value returned by the previous page")
	// ErrEmptyQuery is returned for blank search queries.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrEmptyText is returned when posting a tweet without text.
	ErrEmptyText = errors.New("tweet text is empty")
)

// InvalidHandleError reports input that is not a handle, @handle, or profile URL.
type InvalidHandleError struct {
	Input string
}

func (e *InvalidHandleError) Error() string {
	return fmt.Sprintf("invalid handle %q: expected a username, @username, or profile URL", e.Input)
}

// InvalidTweetIDError reports input that is not a numeric tweet ID or status URL.
type InvalidTweetIDError struct {
	Input string
}

func (e *InvalidTweetIDError) Error() string {
	return fmt.Sprintf("invalid tweet ID %q: expected a numeric ID or a tweet URL", e.Input)
}

// LimitError reports a result-count limit outside the range the resource accepts.
type LimitError struct {
	Limit, Min, Max int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("limit %d out of range: must be between %d and %d", e.Limit, e.Min, e.Max)
}

// MissingAuthorError reports a tweet whose author is absent from the response sidecar,
// typically because the account is suspended, deleted, or protected.
type MissingAuthorError struct {
	TweetID  string
	AuthorID string
}

func (e *MissingAuthorError) Error() string {
	return fmt.Sprintf("tweet %s: author %s not found in response", e.TweetID, e.AuthorID)
}

// ErrorClass categorizes API error responses.
type ErrorClass int

const (
	ClassNone ErrorClass = iota
	ClassRateLimited
	ClassUnauthorized
	ClassForbidden
	ClassNotFound
	ClassInvalidRequest
	ClassServer
)

func (c ErrorClass) String() string {
	switch c {
	case ClassRateLimited:
		return "rate-limited"
	case ClassUnauthorized:
		return "unauthorized"
	case ClassForbidden:
		return "forbidden"
	case ClassNotFound:
		return "not-found"
	case ClassInvalidRequest:
		return "invalid-request"
	case ClassServer:
		return "server"
	}
	return "none"
}

// APIError is a remote error response. It is never retried by the client.
type APIError struct {
	Endpoint string
	Status   int
	Title    string
	Detail   string
	Type     string
	Class    ErrorClass

	// RateLimitReset is set for rate-limited responses.
	RateLimitReset time.Time
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Title
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Endpoint, msg)
	}
	return fmt.Sprintf("%s HTTP %d: %s", e.Endpoint, e.Status, msg)
}

// apiProblem is one entry of an "errors" array, or the top-level problem document.
type apiProblem struct {
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// problemType suffixes used by the v2 API.
const (
	problemNotFound      = "resource-not-found"
	problemUnauthorized  = "not-authorized-for-resource"
	problemUsage         = "usage-capped"
	problemInvalid       = "invalid-request"
	problemClientForbids = "client-forbidden"
)

// newAPIError builds an APIError from a response status, body, and headers.
func newAPIError(endpoint string, status int, body []byte, headers map[string]string) *APIError {
	e := &APIError{Endpoint: endpoint, Status: status}

	var doc struct {
		apiProblem
		Errors []apiProblem `json:"errors"`
	}
	if json.Unmarshal(body, &doc) == nil {
		p := doc.apiProblem
		if p.Title == "" && p.Detail == "" && len(doc.Errors) > 0 {
			p = doc.Errors[0]
		}
		e.Title, e.Detail, e.Type = p.Title, p.Detail, p.Type
		if e.Detail == "" {
			e.Detail = p.Message
		}
	}
	if e.Title == "" && e.Detail == "" {
		e.Detail = truncateBytes(body, 200)
	}
	e.Class = classifyError(status, e.Type)
	if e.Class == ClassRateLimited {
		e.RateLimitReset = parseRateLimitReset(headers["x-rate-limit-reset"])
	}
	return e
}

// partialError converts the first entry of a 200 response's "errors" array.
func partialError(endpoint string, problems []apiProblem) *APIError {
	if len(problems) == 0 {
		return nil
	}
	p := problems[0]
	e := &APIError{Endpoint: endpoint, Title: p.Title, Detail: p.Detail, Type: p.Type}
	if e.Detail == "" {
		e.Detail = p.Message
	}
	e.Class = classifyError(0, p.Type)
	return e
}

// classifyError maps an HTTP status and problem type to an ErrorClass.
func classifyError(status int, problemType string) ErrorClass {
	switch {
	case strings.HasSuffix(problemType, problemNotFound):
		return ClassNotFound
	case strings.HasSuffix(problemType, problemUnauthorized), strings.HasSuffix(problemType, problemClientForbids):
		return ClassForbidden
	case strings.HasSuffix(problemType, problemUsage):
		return ClassRateLimited
	case strings.HasSuffix(problemType, problemInvalid):
		return ClassInvalidRequest
	}
	switch {
	case status == 429:
		return ClassRateLimited
	case status == 401:
		return ClassUnauthorized
	case status == 403:
		return ClassForbidden
	case status == 404:
		return ClassNotFound
	case status >= 500:
		return ClassServer
	case status >= 400:
		return ClassInvalidRequest
	}
	return ClassNone
}

// parseRateLimitReset parses the x-rate-limit-reset unix timestamp header.
// Falls back to 15 minutes from now if missing or invalid.
func parseRateLimitReset(v string) time.Time {
	if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(ts, 0)
	}
	return time.Now().Add(15 * time.Minute)
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
