package twitter

import (
	"regexp"
	"strconv"
	"strings"
)

// Source tells where a parsed identifier came from.
type Source int

const (
	// FromRaw means the input was used as-is after trimming.
	FromRaw Source = iota
	// FromURL means the identifier was extracted from a profile or status URL.
	FromURL
)

// Identifier is a validated handle, user ID or tweet ID.
type Identifier struct {
	Value  string
	Source Source
}

// matcher extracts an identifier from input, reporting whether it applied.
type matcher func(input string) (string, bool)

func urlMatcher(re *regexp.Regexp) matcher {
	return func(input string) (string, bool) {
		m := re.FindStringSubmatch(strings.TrimSpace(input))
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

var (
	profileURLRe = regexp.MustCompile(`^(?:https?://)?(?:www\.|mobile\.)?(?:twitter|x)\.com/@?(\w+)/?(?:[?#].*)?$`)
	statusURLRe  = regexp.MustCompile(`^(?:https?://)?(?:www\.|mobile\.)?(?:twitter|x)\.com/\w+/status(?:es)?/(\d+)(?:[/?#].*)?$`)
	handleRe     = regexp.MustCompile(`^\w+$`)

	handleMatchers = []matcher{urlMatcher(profileURLRe)}
	tweetMatchers  = []matcher{urlMatcher(statusURLRe)}
)

// resolve tries each matcher in order and falls back to the raw input.
func resolve(input string, matchers []matcher) Identifier {
	for _, m := range matchers {
		if v, ok := m(input); ok {
			return Identifier{Value: v, Source: FromURL}
		}
	}
	return Identifier{Value: input, Source: FromRaw}
}

// ParseHandle extracts a handle from "name", "@name" or a profile URL.
func ParseHandle(input string) (Identifier, error) {
	id := resolve(input, handleMatchers)
	id.Value = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(id.Value), "@"))
	if !handleRe.MatchString(id.Value) {
		return Identifier{}, &InvalidHandleError{Input: input}
	}
	return id, nil
}

// ParseTweetID extracts a tweet ID from a numeric string or a status URL.
func ParseTweetID(input string) (Identifier, error) {
	id := resolve(input, tweetMatchers)
	id.Value = strings.TrimSpace(id.Value)
	if _, err := strconv.ParseUint(id.Value, 10, 64); err != nil {
		return Identifier{}, &InvalidTweetIDError{Input: input}
	}
	return id, nil
}

// UserRef is a user identified either by numeric ID or by handle.
type UserRef struct {
	ID     string
	Handle string
}

// ParseUserRef accepts a numeric user ID, a handle, an @handle or a profile URL.
func ParseUserRef(input string) (UserRef, error) {
	s := strings.TrimSpace(input)
	if s != "" && isDigits(s) {
		return UserRef{ID: s}, nil
	}
	h, err := ParseHandle(input)
	if err != nil {
		return UserRef{}, err
	}
	return UserRef{Handle: h.Value}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
