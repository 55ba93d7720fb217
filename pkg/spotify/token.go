package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// AnonymousToken fetches the short-lived bearer token the Spotify web
// player uses for logged-out visitors.
//
// Each call makes exactly one request and the token is never cached;
// callers resolving several URLs get one token per resolution. The
// returned token's Expiry is informational.
//
// Returns an *AuthError when the endpoint does not answer with a success
// status or when its body has no accessToken (errors.Is(err, ErrTokenMissing)).
func (c *Client) AnonymousToken(ctx context.Context) (*oauth2.Token, error) {
	params := url.Values{
		"reason":      {"transport"},
		"productType": {"web_player"},
	}

	status, body, err := c.get(ctx, "token", c.tokenURL, params, nil)
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	if !isSuccess(status) {
		return nil, &AuthError{StatusCode: status}
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &AuthError{StatusCode: status, Err: fmt.Errorf("failed to parse token response: %w", err)}
	}
	if resp.AccessToken == nil || *resp.AccessToken == "" {
		return nil, &AuthError{StatusCode: status, Missing: true}
	}

	tok := &oauth2.Token{
		AccessToken: *resp.AccessToken,
		TokenType:   "Bearer",
	}
	if resp.AccessTokenExpirationTimestampMs > 0 {
		tok.Expiry = time.UnixMilli(resp.AccessTokenExpirationTimestampMs)
	}

	c.logDebugf("spotify: obtained anonymous token (anonymous=%t, expires=%s)", resp.IsAnonymous, tok.Expiry.Format(time.RFC3339))
	return tok, nil
}
