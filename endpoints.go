package twitter

import (
	"fmt"
	"strings"

	"github.com/anatolykoptev/go-twitter-sync/auth"
)

// DefaultBaseURL is the versioned REST namespace.
const DefaultBaseURL = "https://api.twitter.com/2"

// Page-token query parameters.
const (
	pageTokenParam   = "pagination_token"
	searchTokenParam = "next_token"
)

// Field and expansion sets shared by the resources below.
var (
	tweetFields = []string{"attachments", "author_id", "conversation_id", "created_at", "in_reply_to_user_id", "public_metrics"}
	userFields  = []string{"created_at", "description", "location", "pinned_tweet_id", "profile_image_url", "public_metrics", "url", "verified"}
	mediaFields = []string{"alt_text", "height", "media_key", "preview_image_url", "type", "url", "variants", "width"}

	tweetExpansions = []string{"author_id", "attachments.media_keys", "in_reply_to_user_id"}
	userExpansions  = []string{"pinned_tweet_id"}
)

// Resource describes one remote endpoint: how to reach it, what to ask for, and
// what authentication it needs.
type Resource struct {
	Name   string
	Method string
	Path   string // may contain :id and :tweet_id placeholders
	Auth   auth.Mode
	Scopes []string // OAuth2 scopes for user-context access

	Expansions  []string
	TweetFields []string
	UserFields  []string
	MediaFields []string

	MaxResults     int    // default page size, 0 for non-listing resources
	PageTokenParam string // empty for non-paginated resources
}

// path fills the placeholders of the path template.
func (r Resource) path(id string, extra ...string) string {
	p := strings.Replace(r.Path, ":id", id, 1)
	if len(extra) > 0 {
		p = strings.Replace(p, ":tweet_id", extra[0], 1)
	}
	return p
}

// params returns the fixed field and expansion selection.
func (r Resource) params() Params {
	p := Params{
		"expansions":   r.Expansions,
		"tweet.fields": r.TweetFields,
		"user.fields":  r.UserFields,
		"media.fields": r.MediaFields,
	}
	if r.MaxResults > 0 {
		p["max_results"] = r.MaxResults
	}
	return p
}

func (r Resource) String() string {
	return fmt.Sprintf("%s %s", r.Method, r.Path)
}

func tweetResource(name, path string, mode auth.Mode, scopes []string, maxResults int) Resource {
	r := Resource{
		Name: name, Method: "GET", Path: path, Auth: mode, Scopes: scopes,
		Expansions: tweetExpansions, TweetFields: tweetFields, UserFields: userFields, MediaFields: mediaFields,
		MaxResults: maxResults,
	}
	if maxResults > 0 {
		r.PageTokenParam = pageTokenParam
	}
	return r
}

func userResource(name, path string, maxResults int) Resource {
	r := Resource{
		Name: name, Method: "GET", Path: path, Auth: auth.AppOnly,
		Scopes:     []string{auth.ScopeUsersRead, auth.ScopeTweetRead},
		Expansions: userExpansions, TweetFields: tweetFields, UserFields: userFields,
		MaxResults: maxResults,
	}
	if maxResults > 0 {
		r.PageTokenParam = pageTokenParam
	}
	return r
}

func actionResource(name, method, path string, scopes ...string) Resource {
	return Resource{Name: name, Method: method, Path: path, Auth: auth.UserContext, Scopes: scopes}
}

var readScopes = []string{auth.ScopeTweetRead, auth.ScopeUsersRead}

// Read resources.
var (
	ResUserByID       = userResource("UserByID", "/users/:id", 0)
	ResUserByUsername = userResource("UserByUsername", "/users/by/username/:id", 0)
	ResUsersByIDs     = userResource("UsersByIDs", "/users", 0)
	ResUsersByNames   = userResource("UsersByUsernames", "/users/by", 0)
	ResMe             = Resource{
		Name: "Me", Method: "GET", Path: "/users/me", Auth: auth.UserContext, Scopes: readScopes,
		Expansions: userExpansions, TweetFields: tweetFields, UserFields: userFields,
	}
	ResFollowers = Resource{
		Name: "Followers", Method: "GET", Path: "/users/:id/followers", Auth: auth.AppOnly,
		Scopes:     []string{auth.ScopeUsersRead, auth.ScopeTweetRead, auth.ScopeFollowsRead},
		Expansions: userExpansions, TweetFields: tweetFields, UserFields: userFields,
		MaxResults: 1000, PageTokenParam: pageTokenParam,
	}
	ResFollowing = Resource{
		Name: "Following", Method: "GET", Path: "/users/:id/following", Auth: auth.AppOnly,
		Scopes:     []string{auth.ScopeUsersRead, auth.ScopeTweetRead, auth.ScopeFollowsRead},
		Expansions: userExpansions, TweetFields: tweetFields, UserFields: userFields,
		MaxResults: 1000, PageTokenParam: pageTokenParam,
	}

	ResTweet        = tweetResource("Tweet", "/tweets/:id", auth.AppOnly, readScopes, 0)
	ResTweets       = tweetResource("Tweets", "/tweets", auth.AppOnly, readScopes, 0)
	ResProfileTweet = tweetResource("ProfileTweets", "/users/:id/tweets", auth.AppOnly, readScopes, 100)
	ResLikedTweets  = tweetResource("LikedTweets", "/users/:id/liked_tweets", auth.AppOnly,
		[]string{auth.ScopeTweetRead, auth.ScopeUsersRead, auth.ScopeLikeRead}, 100)
	ResSearch = func() Resource {
		r := tweetResource("SearchRecent", "/tweets/search/recent", auth.AppOnly, readScopes, 100)
		r.PageTokenParam = searchTokenParam
		return r
	}()
	ResBookmarks = tweetResource("Bookmarks", "/users/:id/bookmarks", auth.UserContext,
		[]string{auth.ScopeTweetRead, auth.ScopeUsersRead, auth.ScopeBookmarkRead}, 100)
	ResHomeTimeline = tweetResource("HomeTimeline", "/users/:id/timelines/reverse_chronological", auth.UserContext,
		readScopes, 100)
)

// Write resources.
var (
	ResPostTweet      = actionResource("PostTweet", "POST", "/tweets", auth.ScopeTweetRead, auth.ScopeTweetWrite, auth.ScopeUsersRead)
	ResLike           = actionResource("Like", "POST", "/users/:id/likes", auth.ScopeTweetRead, auth.ScopeUsersRead, auth.ScopeLikeWrite)
	ResUnlike         = actionResource("Unlike", "DELETE", "/users/:id/likes/:tweet_id", auth.ScopeTweetRead, auth.ScopeUsersRead, auth.ScopeLikeWrite)
	ResBookmark       = actionResource("Bookmark", "POST", "/users/:id/bookmarks", auth.ScopeTweetRead, auth.ScopeUsersRead, auth.ScopeBookmarkWrite)
	ResRemoveBookmark = actionResource("RemoveBookmark", "DELETE", "/users/:id/bookmarks/:tweet_id", auth.ScopeTweetRead, auth.ScopeUsersRead, auth.ScopeBookmarkWrite)
)

// Resources lists every resource the client can reach.
var Resources = []Resource{
	ResUserByID, ResUserByUsername, ResUsersByIDs, ResUsersByNames, ResMe,
	ResFollowers, ResFollowing,
	ResTweet, ResTweets, ResProfileTweet, ResLikedTweets, ResSearch, ResBookmarks, ResHomeTimeline,
	ResPostTweet, ResLike, ResUnlike, ResBookmark, ResRemoveBookmark,
}

// RequiredScopes returns the OAuth2 scopes needed to use every user-context resource,
// plus offline.access for token refresh.
func RequiredScopes() []string {
	sets := [][]string{{auth.ScopeOfflineAccess}}
	for _, r := range Resources {
		if r.Auth == auth.UserContext {
			sets = append(sets, r.Scopes)
		}
	}
	return auth.MergeScopes(sets...)
}
