package spotify

import (
	"errors"
	"fmt"
)

// Predefined errors for common cases.
var (
	// ErrTokenMissing is wrapped by AuthError when the token endpoint
	// answers successfully but the body carries no accessToken.
	ErrTokenMissing = errors.New("spotify: access token missing from response")

	// ErrInvalidConfig is returned when client configuration is invalid.
	ErrInvalidConfig = errors.New("spotify: invalid configuration")
)

// InvalidURLError is returned when a URL does not contain a
// spotify.com/{track,album,playlist}/{id} path.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("spotify: invalid url %q", e.URL)
}

// AuthError is returned when no anonymous token could be obtained.
//
// Missing is true when the endpoint answered with a success status but
// the body had no token; in that case StatusCode is the success status
// and errors.Is(err, ErrTokenMissing) holds.
type AuthError struct {
	StatusCode int
	Missing    bool
	Err        error
}

func (e *AuthError) Error() string {
	switch {
	case e.Missing:
		return "spotify: auth: access token missing from response"
	case e.Err != nil:
		return fmt.Sprintf("spotify: auth: %v", e.Err)
	default:
		return fmt.Sprintf("spotify: auth: token endpoint returned status %d", e.StatusCode)
	}
}

func (e *AuthError) Unwrap() error {
	if e.Missing {
		return ErrTokenMissing
	}
	return e.Err
}

// FetchError is returned when an API request fails. Any tracks gathered
// before the failure are discarded.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never produced a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("spotify: fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("spotify: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MalformedTrackError is returned when a track payload lacks one of
// id, name, duration_ms or artists.
type MalformedTrackError struct {
	Field   string
	TrackID string // empty when the id itself is missing
}

func (e *MalformedTrackError) Error() string {
	if e.TrackID == "" {
		return fmt.Sprintf("spotify: malformed track: missing %s", e.Field)
	}
	return fmt.Sprintf("spotify: malformed track %s: missing %s", e.TrackID, e.Field)
}

// UnsupportedKindError is returned when asked to resolve a kind other
// than track, album or playlist.
type UnsupportedKindError struct {
	Kind Kind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("spotify: unsupported kind %q", e.Kind.String())
}
