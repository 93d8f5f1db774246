package twitter

import (
	"encoding/json"
	"fmt"
)

// listResponse is the envelope of a paginated listing.
type listResponse[R any] struct {
	Data     []R          `json:"data"`
	Includes RawIncludes  `json:"includes"`
	Meta     listMeta     `json:"meta"`
	Errors   []apiProblem `json:"errors"`
}

type listMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

// singleResponse is the envelope of a lookup by ID or username.
type singleResponse[R any] struct {
	Data     *R           `json:"data"`
	Includes RawIncludes  `json:"includes"`
	Errors   []apiProblem `json:"errors"`
}

// actionResponse is the envelope of a write action.
type actionResponse struct {
	Data struct {
		ID         string `json:"id"`
		Text       string `json:"text"`
		Liked      *bool  `json:"liked"`
		Bookmarked *bool  `json:"bookmarked"`
	} `json:"data"`
	Errors []apiProblem `json:"errors"`
}

// parseUser decodes a single user lookup. A 200 response with only errors is
// reported as *APIError.
func parseUser(endpoint string, body []byte) (*User, error) {
	var raw singleResponse[RawUser]
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", endpoint, err)
	}
	if raw.Data == nil {
		if e := partialError(endpoint, raw.Errors); e != nil {
			return nil, e
		}
		return nil, &APIError{Endpoint: endpoint, Detail: "user not found", Class: ClassNotFound}
	}
	users := JoinUsers([]RawUser{*raw.Data}, raw.Includes)
	return users[0], nil
}

// parseTweet decodes a single tweet lookup and joins it with its sidecar.
func parseTweet(endpoint string, body []byte) (*Tweet, error) {
	var raw singleResponse[RawTweet]
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", endpoint, err)
	}
	if raw.Data == nil {
		if e := partialError(endpoint, raw.Errors); e != nil {
			return nil, e
		}
		return nil, &APIError{Endpoint: endpoint, Detail: "tweet not found", Class: ClassNotFound}
	}
	return NormalizeTweet(*raw.Data, NewAnnotationInfo(raw.Includes))
}

// parseList decodes a listing envelope. Partial errors alongside data are logged
// by the caller and otherwise ignored, as the API reports unavailable items there.
func parseList[R any](endpoint string, body []byte) (*listResponse[R], error) {
	var raw listResponse[R]
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", endpoint, err)
	}
	return &raw, nil
}

// parseAction decodes a write-action envelope.
func parseAction(endpoint string, body []byte) (*actionResponse, error) {
	var raw actionResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", endpoint, err)
	}
	if raw.Data.ID == "" && raw.Data.Liked == nil && raw.Data.Bookmarked == nil {
		if e := partialError(endpoint, raw.Errors); e != nil {
			return nil, e
		}
	}
	return &raw, nil
}
