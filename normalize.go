package twitter

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"
)

// siteURL is the public web origin used for canonical links.
const siteURL = "https://twitter.com"

var (
	// lowResSuffixRe matches the "_normal" marker on low-resolution profile images.
	lowResSuffixRe = regexp.MustCompile(`_normal(\.\w+)?$`)
	// ampersandRe matches an ampersand and, when present, the entity it already starts.
	ampersandRe = regexp.MustCompile(`&(#[0-9]+;|#[xX][0-9a-fA-F]+;|[a-zA-Z]+;)?`)
	shortURLRe  = regexp.MustCompile(`https://t\.co/\w+`)
)

// UserOptions carries cross-references resolved outside the user record.
type UserOptions struct {
	PinnedTweetID string
}

// NormalizeUser flattens a raw user and upgrades its profile image to full resolution.
func NormalizeUser(raw RawUser, opts UserOptions) User {
	u := User{
		ID:              raw.ID,
		Name:            raw.Name,
		Username:        raw.Username,
		Description:     raw.Description,
		Location:        raw.Location,
		URL:             raw.URL,
		Verified:        raw.Verified,
		ProfileImageURL: FullResImageURL(raw.ProfileImageURL),
		PinnedTweetID:   opts.PinnedTweetID,
		FollowersCount:  raw.PublicMetrics.FollowersCount,
		FollowingCount:  raw.PublicMetrics.FollowingCount,
		TweetCount:      raw.PublicMetrics.TweetCount,
		ListedCount:     raw.PublicMetrics.ListedCount,
		CreatedAt:       parseAPITime(raw.CreatedAt),
		ProfileURL:      siteURL + "/" + raw.Username,
	}
	u.Title = fmt.Sprintf("%s (@%s)", u.Name, u.Username)
	if u.Verified {
		u.Title += " ✅"
	}
	return u
}

// FullResImageURL strips the low-resolution "_normal" suffix from a profile image URL.
// URLs without the suffix are returned unchanged.
func FullResImageURL(u string) string {
	return lowResSuffixRe.ReplaceAllString(u, "$1")
}

// NormalizeMedia picks the image and video URLs for a media record.
// The first listed variant wins; no bitrate selection is made.
func NormalizeMedia(raw RawMedia) Media {
	m := Media{
		MediaKey: raw.MediaKey,
		Type:     raw.Type,
		ImageURL: raw.URL,
		AltText:  raw.AltText,
		Width:    raw.Width,
		Height:   raw.Height,
	}
	if m.ImageURL == "" {
		m.ImageURL = raw.PreviewImageURL
	}
	if len(raw.Variants) > 0 {
		m.VideoURL = raw.Variants[0].URL
		m.Embed = m.VideoURL
	}
	return m
}

// NormalizeTweet joins a raw tweet with its author and media from the sidecar.
// The author is mandatory: a tweet whose author is missing from info yields a
// *MissingAuthorError rather than a partial record.
func NormalizeTweet(raw RawTweet, info AnnotationInfo) (*Tweet, error) {
	author, ok := info.user(raw.AuthorID)
	if !ok {
		return nil, &MissingAuthorError{TweetID: raw.ID, AuthorID: raw.AuthorID}
	}

	var media []Media
	for _, m := range info.Media {
		if slices.Contains(raw.Attachments.MediaKeys, m.MediaKey) {
			media = append(media, NormalizeMedia(m))
		}
	}

	t := &Tweet{
		ID:              raw.ID,
		Text:            FormatTweetText(raw.Text),
		RawText:         raw.Text,
		CreatedAt:       parseAPITime(raw.CreatedAt),
		AuthorID:        raw.AuthorID,
		Author:          &author,
		ConversationID:  raw.ConversationID,
		InReplyToUserID: raw.InReplyToUserID,
		LikeCount:       raw.PublicMetrics.LikeCount,
		RetweetCount:    raw.PublicMetrics.RetweetCount,
		ReplyCount:      raw.PublicMetrics.ReplyCount,
		QuoteCount:      raw.PublicMetrics.QuoteCount,
		Media:           media,
		URL:             TweetURL(author.Username, raw.ID),
		Title:           fmt.Sprintf("%s (@%s)", author.Name, author.Username),
	}
	if other, ok := info.user(raw.InReplyToUserID); ok {
		t.ReplyTo = &other
		t.Title += " replied to @" + other.Username
	}
	return t, nil
}

// TweetURL returns the canonical web URL of a tweet.
func TweetURL(handle, id string) string {
	return siteURL + "/" + handle + "/status/" + id
}

// FormatTweetText prepares tweet text for HTML display: bare ampersands are
// escaped, newlines become <br>, and t.co links become anchors.
func FormatTweetText(s string) string {
	s = ampersandRe.ReplaceAllStringFunc(s, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "<br>")
	return shortURLRe.ReplaceAllString(s, `<a href="$0">$0</a>`)
}

// NewAnnotationInfo builds the sidecar for one response.
func NewAnnotationInfo(inc RawIncludes) AnnotationInfo {
	info := AnnotationInfo{Media: inc.Media}
	for _, u := range inc.Users {
		info.Users = append(info.Users, NormalizeUser(u, UserOptions{PinnedTweetID: u.PinnedTweetID}))
	}
	return info
}

// JoinTweets normalizes every raw tweet against the sidecar. With skipOrphans,
// tweets whose author is missing are dropped; otherwise the first one fails the join.
func JoinTweets(raws []RawTweet, info AnnotationInfo, skipOrphans bool) ([]*Tweet, error) {
	tweets := make([]*Tweet, 0, len(raws))
	for _, raw := range raws {
		t, err := NormalizeTweet(raw, info)
		if err != nil {
			if skipOrphans {
				slog.Warn("skip tweet without author", slog.String("tweet_id", raw.ID), slog.String("author_id", raw.AuthorID))
				continue
			}
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, nil
}

// JoinUsers normalizes a list of raw users. Pinned tweet IDs are kept only when
// the pinned tweet came back in the sidecar.
func JoinUsers(raws []RawUser, inc RawIncludes) []*User {
	pinned := make(map[string]bool, len(inc.Tweets))
	for _, t := range inc.Tweets {
		pinned[t.ID] = true
	}
	users := make([]*User, 0, len(raws))
	for _, raw := range raws {
		var opts UserOptions
		if pinned[raw.PinnedTweetID] {
			opts.PinnedTweetID = raw.PinnedTweetID
		}
		u := NormalizeUser(raw, opts)
		users = append(users, &u)
	}
	return users
}

// parseAPITime parses an RFC 3339 API timestamp, returning the zero time on failure.
func parseAPITime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
