package auth

import "sort"

// OAuth 2.0 scopes used by the resource catalog.
const (
	ScopeTweetRead     = "tweet.read"
	ScopeTweetWrite    = "tweet.write"
	ScopeUsersRead     = "users.read"
	ScopeFollowsRead   = "follows.read"
	ScopeLikeRead      = "like.read"
	ScopeLikeWrite     = "like.write"
	ScopeBookmarkRead  = "bookmark.read"
	ScopeBookmarkWrite = "bookmark.write"
	ScopeOfflineAccess = "offline.access"
)

// MergeScopes returns the sorted union of the given scope sets.
func MergeScopes(sets ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, set := range sets {
		for _, s := range set {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
