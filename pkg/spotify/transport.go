package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// get performs a single GET with the client's request configuration.
//
// params are merged into the query string of rawURL; pass nil when the
// URL is already complete (pagination cursors). tok may be nil for the
// unauthenticated token request. A non-nil error means no response was
// received; HTTP status handling is left to the caller. There is no retry.
func (c *Client) get(ctx context.Context, endpoint, rawURL string, params url.Values, tok *oauth2.Token) (int, []byte, error) {
	reqURL, err := withQuery(rawURL, params)
	if err != nil {
		return 0, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.request.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range c.request.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if tok != nil {
		tok.SetAuthHeader(req)
	}

	c.logDebugf("spotify: GET %s", reqURL)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, 0, time.Since(start))
		return 0, nil, fmt.Errorf("http request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	c.observe(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// getJSON fetches an API resource and decodes it into out. Every failure
// is reported as a *FetchError.
func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, params url.Values, tok *oauth2.Token, out any) error {
	status, body, err := c.get(ctx, endpoint, rawURL, params, tok)
	if err != nil {
		return &FetchError{URL: rawURL, Err: err}
	}
	if !isSuccess(status) {
		return &FetchError{URL: rawURL, StatusCode: status}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{URL: rawURL, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// withQuery adds params to rawURL, keeping any query already present.
func withQuery(rawURL string, params url.Values) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
