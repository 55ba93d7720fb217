package spotify

import (
	"fmt"
	"regexp"
)

// Kind is the type of catalog resource a URL points at.
type Kind int

const (
	KindUnknown  Kind = iota // Not a resolvable resource
	KindTrack                // A single track
	KindAlbum                // An album, listed track by track
	KindPlaylist             // A playlist, listed track by track
)

// String returns the URL path segment for the kind.
func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindTrack:
		return "track"
	case KindAlbum:
		return "album"
	case KindPlaylist:
		return "playlist"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String for the resolvable kinds.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "track":
		return KindTrack, nil
	case "album":
		return KindAlbum, nil
	case "playlist":
		return KindPlaylist, nil
	default:
		return KindUnknown, fmt.Errorf("spotify: unknown kind %q", s)
	}
}

// ResourceReference identifies one catalog resource.
type ResourceReference struct {
	Kind Kind
	ID   string
}

func (r ResourceReference) String() string {
	return r.Kind.String() + ":" + r.ID
}

// resourcePattern is unanchored so share links with query strings
// (?si=...) still match.
var resourcePattern = regexp.MustCompile(`spotify\.com/(track|album|playlist)/([a-zA-Z0-9]+)`)

// ParseURL extracts the resource kind and id from a Spotify URL.
//
// Example:
//
//	ref, err := spotify.ParseURL("https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc")
//	// ref.Kind == spotify.KindPlaylist, ref.ID == "37i9dQZF1DXcBWIGoYBM5M"
func ParseURL(rawURL string) (ResourceReference, error) {
	m := resourcePattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ResourceReference{}, &InvalidURLError{URL: rawURL}
	}
	kind, err := ParseKind(m[1])
	if err != nil {
		return ResourceReference{}, &InvalidURLError{URL: rawURL}
	}
	return ResourceReference{Kind: kind, ID: m[2]}, nil
}
