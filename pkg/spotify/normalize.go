package spotify

import (
	"fmt"
)

const (
	// UnknownAlbum is the album name used when a track payload has none.
	UnknownAlbum = "N/A"

	trackURLPrefix = "https://open.spotify.com/track/"
)

// FormatDuration renders a millisecond duration as m:ss, flooring to
// whole seconds. Negative input is treated as zero.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	s := ms / 1000
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// TrackURL returns the canonical open.spotify.com link for a track id.
func TrackURL(id string) string {
	return trackURLPrefix + id
}

// normalizeTrack maps a raw track onto a TrackRecord. When album is
// non-nil it replaces whatever album the payload embeds; album listings
// rely on this since their tracks carry no album.
func normalizeTrack(raw *trackObject, album *string) (TrackRecord, error) {
	if raw.ID == nil || *raw.ID == "" {
		return TrackRecord{}, &MalformedTrackError{Field: "id"}
	}
	id := *raw.ID
	if raw.Name == nil || *raw.Name == "" {
		return TrackRecord{}, &MalformedTrackError{Field: "name", TrackID: id}
	}
	if raw.DurationMS == nil {
		return TrackRecord{}, &MalformedTrackError{Field: "duration_ms", TrackID: id}
	}
	if raw.Artists == nil {
		return TrackRecord{}, &MalformedTrackError{Field: "artists", TrackID: id}
	}

	artists := make([]string, 0, len(*raw.Artists))
	for _, a := range *raw.Artists {
		artists = append(artists, a.Name)
	}

	albumName := UnknownAlbum
	switch {
	case album != nil:
		albumName = *album
	case raw.Album != nil && raw.Album.Name != nil:
		albumName = *raw.Album.Name
	}

	return TrackRecord{
		ID:       id,
		Title:    *raw.Name,
		Artists:  artists,
		Album:    albumName,
		Duration: FormatDuration(*raw.DurationMS),
		URL:      TrackURL(id),
	}, nil
}
