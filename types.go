package twitter

import "time"

// User is a normalized account profile.
type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Username        string    `json:"username"`
	Description     string    `json:"description,omitempty"`
	Location        string    `json:"location,omitempty"`
	URL             string    `json:"url,omitempty"`
	Verified        bool      `json:"verified"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"` // full-resolution variant
	PinnedTweetID   string    `json:"pinned_tweet_id,omitempty"`
	FollowersCount  int       `json:"followers_count"`
	FollowingCount  int       `json:"following_count"`
	TweetCount      int       `json:"tweet_count"`
	ListedCount     int       `json:"listed_count"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
	ProfileURL      string    `json:"profile_url"`
	Title           string    `json:"title"`
}

// Media is a normalized photo, video, or animated GIF attached to a tweet.
type Media struct {
	MediaKey string `json:"media_key"`
	Type     string `json:"type"`
	ImageURL string `json:"image_url,omitempty"` // empty when the API sent neither url nor preview
	VideoURL string `json:"video_url,omitempty"`
	Embed    string `json:"embed,omitempty"`
	AltText  string `json:"alt_text,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Tweet is a normalized tweet joined with its author and media.
type Tweet struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`     // HTML-prepared for display
	RawText         string    `json:"raw_text"` // as returned by the API
	CreatedAt       time.Time `json:"created_at,omitzero"`
	AuthorID        string    `json:"author_id"`
	Author          *User     `json:"author"`
	ConversationID  string    `json:"conversation_id,omitempty"`
	InReplyToUserID string    `json:"in_reply_to_user_id,omitempty"`
	ReplyTo         *User     `json:"reply_to,omitempty"`
	LikeCount       int       `json:"like_count"`
	RetweetCount    int       `json:"retweet_count"`
	ReplyCount      int       `json:"reply_count"`
	QuoteCount      int       `json:"quote_count"`
	Media           []Media   `json:"media,omitempty"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
}

// Cursor is an opaque continuation for a paginated listing.
// Pass it back unchanged to fetch the next page. The empty cursor requests the
// first page on input and marks the end of the listing on output.
type Cursor string

// Page is one page of a listing plus the continuation for the next one.
type Page[T any] struct {
	Items []T    `json:"result"`
	Next  Cursor `json:"continuation,omitempty"`
}

// Done reports whether the listing has no further pages.
func (p Page[T]) Done() bool { return p.Next == "" }

// AnnotationInfo is the per-response sidecar of users and media referenced by the
// primary records. It only lives for one normalization pass.
type AnnotationInfo struct {
	Users []User
	Media []RawMedia
}

// user looks up a sidecar user by exact ID.
func (a AnnotationInfo) user(id string) (User, bool) {
	if id == "" {
		return User{}, false
	}
	for _, u := range a.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// --- Raw API shapes ---

// RawUser is a user object as returned by the API.
type RawUser struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	URL             string `json:"url"`
	Verified        bool   `json:"verified"`
	Protected       bool   `json:"protected"`
	ProfileImageURL string `json:"profile_image_url"`
	PinnedTweetID   string `json:"pinned_tweet_id"`
	CreatedAt       string `json:"created_at"`
	PublicMetrics   struct {
		FollowersCount int `json:"followers_count"`
		FollowingCount int `json:"following_count"`
		TweetCount     int `json:"tweet_count"`
		ListedCount    int `json:"listed_count"`
	} `json:"public_metrics"`
}

// RawMedia is a media object from the includes sidecar.
type RawMedia struct {
	MediaKey        string       `json:"media_key"`
	Type            string       `json:"type"`
	URL             string       `json:"url"`
	PreviewImageURL string       `json:"preview_image_url"`
	Width           int          `json:"width"`
	Height          int          `json:"height"`
	AltText         string       `json:"alt_text"`
	Variants        []RawVariant `json:"variants"`
}

// RawVariant is one encoding of a video or GIF.
type RawVariant struct {
	BitRate     int    `json:"bit_rate"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

// RawTweet is a tweet object as returned by the API.
type RawTweet struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	CreatedAt       string `json:"created_at"`
	AuthorID        string `json:"author_id"`
	ConversationID  string `json:"conversation_id"`
	InReplyToUserID string `json:"in_reply_to_user_id"`
	Attachments     struct {
		MediaKeys []string `json:"media_keys"`
	} `json:"attachments"`
	PublicMetrics struct {
		RetweetCount int `json:"retweet_count"`
		ReplyCount   int `json:"reply_count"`
		LikeCount    int `json:"like_count"`
		QuoteCount   int `json:"quote_count"`
	} `json:"public_metrics"`
}

// RawIncludes is the "includes" sidecar of a response.
type RawIncludes struct {
	Users  []RawUser  `json:"users"`
	Media  []RawMedia `json:"media"`
	Tweets []RawTweet `json:"tweets"`
}
