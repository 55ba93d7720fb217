package spotify

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"
)

const (
	playlistPageSize = 100
	albumPageSize    = 50
	playlistFields   = "items(track(id,name,duration_ms,artists,album)),next,total"
)

// ResolveTracks returns the tracks behind a track, album or playlist URL,
// in the order Spotify lists them.
//
// A fresh anonymous token is fetched for every call. Any failure aborts
// the whole resolution; no partial list is returned. Deleted or local
// playlist entries are skipped.
//
// Example:
//
//	tracks, err := client.ResolveTracks(ctx, "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC")
//	if err != nil {
//	    var urlErr *spotify.InvalidURLError
//	    if errors.As(err, &urlErr) {
//	        // ask the user again
//	    }
//	}
func (c *Client) ResolveTracks(ctx context.Context, rawURL string) ([]TrackRecord, error) {
	ref, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return c.Resolve(ctx, ref)
}

// Resolve is ResolveTracks for an already parsed reference.
func (c *Client) Resolve(ctx context.Context, ref ResourceReference) ([]TrackRecord, error) {
	switch ref.Kind {
	case KindTrack, KindAlbum, KindPlaylist:
	default:
		return nil, &UnsupportedKindError{Kind: ref.Kind}
	}

	tok, err := c.AnonymousToken(ctx)
	if err != nil {
		return nil, err
	}

	c.logDebugf("spotify: resolving %s", ref)

	switch ref.Kind {
	case KindPlaylist:
		return c.playlistTracks(ctx, tok, ref.ID)
	case KindAlbum:
		return c.albumTracks(ctx, tok, ref.ID)
	default:
		return c.singleTrack(ctx, tok, ref.ID)
	}
}

func (c *Client) playlistTracks(ctx context.Context, tok *oauth2.Token, id string) ([]TrackRecord, error) {
	params := url.Values{
		"limit":  {strconv.Itoa(playlistPageSize)},
		"offset": {"0"},
		"fields": {playlistFields},
	}

	tracks := make([]TrackRecord, 0)
	for item, err := range items[playlistItem](ctx, c, "playlist_tracks", c.endpoint("playlists", id, "tracks"), params, tok) {
		if err != nil {
			return nil, err
		}
		// Deleted entries have no track; local files have no id.
		if item.Track == nil || item.Track.ID == nil || *item.Track.ID == "" {
			continue
		}
		t, err := normalizeTrack(item.Track, nil)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

func (c *Client) albumTracks(ctx context.Context, tok *oauth2.Token, id string) ([]TrackRecord, error) {
	albumURL := c.endpoint("albums", id)
	var album albumObject
	if err := c.getJSON(ctx, "album", albumURL, nil, tok, &album); err != nil {
		return nil, err
	}
	if album.Name == nil {
		return nil, &FetchError{URL: albumURL, Err: errors.New("album has no name")}
	}

	params := url.Values{
		"limit": {strconv.Itoa(albumPageSize)},
	}

	tracks := make([]TrackRecord, 0)
	for raw, err := range items[trackObject](ctx, c, "album_tracks", c.endpoint("albums", id, "tracks"), params, tok) {
		if err != nil {
			return nil, err
		}
		t, err := normalizeTrack(&raw, album.Name)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

func (c *Client) singleTrack(ctx context.Context, tok *oauth2.Token, id string) ([]TrackRecord, error) {
	var raw trackObject
	if err := c.getJSON(ctx, "track", c.endpoint("tracks", id), nil, tok, &raw); err != nil {
		return nil, err
	}
	t, err := normalizeTrack(&raw, nil)
	if err != nil {
		return nil, err
	}
	return []TrackRecord{t}, nil
}

// endpoint joins path segments onto the API base URL.
func (c *Client) endpoint(segments ...string) string {
	u := c.apiBaseURL
	for _, s := range segments {
		u += "/" + url.PathEscape(s)
	}
	return u
}
