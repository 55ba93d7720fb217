// Package export writes resolved tracks to disk.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jfmyers9/tracklist/pkg/spotify"
)

// Encode writes tracks as an indented JSON array. Non-ASCII text and
// HTML characters are written as-is.
func Encode(w io.Writer, tracks []spotify.TrackRecord) error {
	if tracks == nil {
		tracks = []spotify.TrackRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tracks); err != nil {
		return fmt.Errorf("failed to encode tracks: %w", err)
	}
	return nil
}

// WriteFile writes tracks to path, replacing any existing file.
func WriteFile(path string, tracks []spotify.TrackRecord) error {
	var buf bytes.Buffer
	if err := Encode(&buf, tracks); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
