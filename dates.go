package twitter

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted by ParseDate.
const DateLayout = "2006-01-02"

// DateWindow expands a calendar date to the UTC day [00:00:00.000, 23:59:59.000].
// Only the year, month and day of d are used; its location is ignored.
func DateWindow(d time.Time) (start, end time.Time) {
	y, m, day := d.Date()
	start = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	end = time.Date(y, m, day, 23, 59, 59, 0, time.UTC)
	return start, end
}

// ParseDate parses a "YYYY-MM-DD" date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// TweetFilter narrows a tweet listing.
type TweetFilter struct {
	SinceID string    // newest-id bound, exclusive
	UntilID string    // oldest-id bound, exclusive
	Date    time.Time // zero means no date window
}

func (f TweetFilter) params() Params {
	p := Params{"since_id": f.SinceID, "until_id": f.UntilID}
	if !f.Date.IsZero() {
		start, end := DateWindow(f.Date)
		p["start_time"] = start
		p["end_time"] = end
	}
	return p
}

// ProfileFilter narrows a profile timeline. A non-zero Limit makes the request
// bounded: one page of Limit tweets and never a continuation.
type ProfileFilter struct {
	TweetFilter
	Limit int
}

// LikedFilter carries the highest liked tweet already seen by the caller.
// The API has no "since" parameter for likes, so FloorID only detects overlap.
type LikedFilter struct {
	FloorID string
}
