// Package spotify resolves public Spotify URLs into normalized track lists.
//
// # Overview
//
// A track, album or playlist URL is turned into an ordered []TrackRecord
// using only public catalog endpoints. Authentication uses the anonymous
// token the Spotify web player requests for logged-out visitors, so no
// client id, secret or user login is required.
//
// # Quick Start
//
//	import "github.com/jfmyers9/tracklist/pkg/spotify"
//
//	client, err := spotify.NewClient(spotify.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tracks, err := client.ResolveTracks(ctx, "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range tracks {
//	    fmt.Println(strings.Join(t.Artists, ", "), "-", t.Title, t.Duration)
//	}
//
// # Resolution
//
// ResolveTracks performs these steps:
//
//  1. ParseURL extracts the kind and id from the URL
//  2. AnonymousToken fetches a fresh bearer token
//  3. The kind-specific listing is fetched page by page
//  4. Every track is normalized into a TrackRecord
//
// Playlists are read 100 entries per page, albums 50 tracks per page.
// Album tracks carry no album name of their own, so the album is fetched
// once and its name applied to every track. Single track payloads without
// an album get UnknownAlbum.
//
// # Error Handling
//
// Every failure aborts the resolution and is returned as one of:
//
//   - *InvalidURLError: the input is not a track, album or playlist URL
//   - *AuthError: the token endpoint failed or returned no token
//   - *FetchError: an API request failed or returned a non-2xx status
//   - *MalformedTrackError: a track lacks id, name, duration_ms or artists
//   - *UnsupportedKindError: Resolve was given an unknown Kind
//
// Use errors.As to inspect them:
//
//	tracks, err := client.ResolveTracks(ctx, url)
//	var fetchErr *spotify.FetchError
//	if errors.As(err, &fetchErr) && fetchErr.StatusCode == http.StatusNotFound {
//	    // the playlist is private or was deleted
//	}
//
// The only tolerated gap in the data is a deleted or local playlist
// entry, which is skipped.
//
// # Configuration
//
// Headers and the per-request timeout travel in RequestConfig. The
// defaults mimic a desktop browser, which the token endpoint requires:
//
//	client, err := spotify.NewClient(spotify.Config{
//	    HTTPClient: &http.Client{},
//	    Request: spotify.RequestConfig{
//	        Headers: http.Header{"Accept-Language": {"en-US,en;q=0.9"}},
//	        Timeout: 10 * time.Second,
//	    },
//	    Logger:   myLogger,   // Implements spotify.Logger
//	    Observer: myRecorder, // Implements spotify.Observer
//	})
//
// A Client keeps no state between resolutions and may be shared by
// goroutines resolving different URLs.
package spotify
