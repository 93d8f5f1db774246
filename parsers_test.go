package twitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	raw, err := parseList[RawTweet]("ProfileTweets", []byte(tweetsPage))
	require.NoError(t, err)
	assert.Len(t, raw.Data, 2)
	assert.Equal(t, "tok2", raw.Meta.NextToken)
	assert.Equal(t, 2, raw.Meta.ResultCount)
	assert.Len(t, raw.Includes.Users, 2)
	assert.Len(t, raw.Includes.Media, 2)
	assert.Equal(t, []string{"3_1"}, raw.Data[0].Attachments.MediaKeys)

	_, err = parseList[RawTweet]("ProfileTweets", []byte(`{invalid`))
	assert.Error(t, err)
}

func TestParseList_EmptyPage(t *testing.T) {
	raw, err := parseList[RawUser]("Followers", []byte(`{"meta":{"result_count":0}}`))
	require.NoError(t, err)
	assert.Empty(t, raw.Data)
	assert.Empty(t, raw.Meta.NextToken)
}

func TestParseTweet_Unavailable(t *testing.T) {
	body := `{"errors":[{"value":"1","detail":"Could not find tweet with id: [1].",
		"title":"Not Found Error","resource_type":"tweet","parameter":"id",
		"type":"https://api.twitter.com/2/problems/resource-not-found"}]}`
	_, err := parseTweet("Tweet", []byte(body))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ClassNotFound, apiErr.Class)
}

func TestParseTweet_EmptyDocument(t *testing.T) {
	_, err := parseTweet("Tweet", []byte(`{}`))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ClassNotFound, apiErr.Class)
}

func TestParseUser(t *testing.T) {
	u, err := parseUser("UserByID", []byte(`{"data":{"id":"12","name":"S","username":"s","verified":true,
		"profile_image_url":"https://pbs.twimg.com/profile_images/9/x_normal.jpg"}}`))
	require.NoError(t, err)
	assert.Equal(t, "S (@s) ✅", u.Title)
	assert.Equal(t, "https://pbs.twimg.com/profile_images/9/x.jpg", u.ProfileImageURL)
}

func TestParseAction(t *testing.T) {
	raw, err := parseAction("Like", []byte(`{"data":{"liked":true}}`))
	require.NoError(t, err)
	require.NotNil(t, raw.Data.Liked)
	assert.True(t, *raw.Data.Liked)
	assert.Nil(t, raw.Data.Bookmarked)

	_, err = parseAction("Like", []byte(`{"errors":[{"title":"Forbidden","detail":"nope"}]}`))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "nope", apiErr.Detail)
}
