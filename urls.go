package twitter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// apiTimeLayout is the timestamp format accepted by start_time/end_time.
const apiTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Params maps query keys to values. Supported values are string, int, int64,
// uint64, bool, []string, time.Time and fmt.Stringer. Nil, empty strings and empty
// slices are omitted.
type Params map[string]any

// BuildURL joins base and path and appends params as a query string with sorted keys.
// path must begin with "/"; anything else is a programming error and panics.
func BuildURL(base, path string, params Params) string {
	if !strings.HasPrefix(path, "/") {
		panic(fmt.Sprintf("twitter: BuildURL: path %q must start with /", path))
	}
	u := strings.TrimSuffix(base, "/") + path

	q := url.Values{}
	for k, v := range params {
		if s, ok := paramString(v); ok {
			q.Set(k, s)
		}
	}
	if len(q) == 0 {
		return u
	}
	return u + "?" + q.Encode()
}

// paramString renders a query value. The bool result is false for omitted values.
func paramString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case []string:
		return strings.Join(x, ","), len(x) > 0
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	case time.Time:
		if x.IsZero() {
			return "", false
		}
		return x.UTC().Format(apiTimeLayout), true
	case fmt.Stringer:
		s := x.String()
		return s, s != ""
	}
	return fmt.Sprint(v), true
}

// withQueryParam returns rawURL with key set to value, replacing any previous value.
func withQueryParam(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
