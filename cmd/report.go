package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jfmyers9/tracklist/pkg/spotify"
	"github.com/mattn/go-runewidth"
)

// printReport writes the track count followed by one numbered line per
// track. Lines wider than width display columns are truncated; width <= 0
// disables truncation.
func printReport(w io.Writer, title string, tracks []spotify.TrackRecord, width int) {
	if title != "" {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintf(w, "%d tracks found\n\n", len(tracks))

	for i, t := range tracks {
		line := formatTrackLine(i+1, t)
		if width > 0 && runewidth.StringWidth(line) > width {
			line = padToWidth(line, width)
		}
		fmt.Fprintln(w, line)
	}
}

// formatTrackLine renders one numbered report line.
func formatTrackLine(n int, t spotify.TrackRecord) string {
	return fmt.Sprintf("%4d. %s — %s (%s)", n, strings.Join(t.Artists, ", "), t.Title, t.Duration)
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
// If text is shorter than width, pads with spaces.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	currentWidth := runewidth.StringWidth(text)

	if currentWidth > width {
		ellipsis := "..."
		ellipsisWidth := runewidth.StringWidth(ellipsis)

		if width <= ellipsisWidth {
			return runewidth.Truncate(ellipsis, width, "")
		}

		truncated := runewidth.Truncate(text, width-ellipsisWidth, "")
		result := truncated + ellipsis

		// Wide runes can leave the truncation one column short
		if resultWidth := runewidth.StringWidth(result); resultWidth < width {
			return result + strings.Repeat(" ", width-resultWidth)
		}
		return result
	} else if currentWidth < width {
		return text + strings.Repeat(" ", width-currentWidth)
	}

	return text
}
