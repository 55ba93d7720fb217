package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jfmyers9/tracklist/pkg/spotify"
)

var sample = []spotify.TrackRecord{
	{
		ID:       "t1",
		Title:    "Je te laisserai des mots",
		Artists:  []string{"Patrick Watson"},
		Album:    "Close to Paradise",
		Duration: "2:40",
		URL:      "https://open.spotify.com/track/t1",
	},
	{
		ID:       "t2",
		Title:    "Rock & Roll <Live>",
		Artists:  []string{"Björk", "坂本龍一"},
		Album:    spotify.UnknownAlbum,
		Duration: "10:00",
		URL:      "https://open.spotify.com/track/t2",
	},
}

func TestEncode_FieldOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sample[:1]); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `[
  {
    "id": "t1",
    "title": "Je te laisserai des mots",
    "artists": [
      "Patrick Watson"
    ],
    "album": "Close to Paradise",
    "duration": "2:40",
    "url": "https://open.spotify.com/track/t1"
  }
]
`
	if got := buf.String(); got != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", got, want)
	}
}

func TestEncode_PreservesUnicodeAndHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sample[1:]); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	out := buf.String()
	for _, s := range []string{"Björk", "坂本龍一", "Rock & Roll <Live>"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
	if strings.Contains(out, `\u`) {
		t.Errorf("output contains escapes:\n%s", out)
	}
}

func TestEncode_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("Encode(nil) = %q, want %q", got, "[]\n")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.json")

	if err := WriteFile(path, sample); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	var got []spotify.TrackRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got) != 2 || got[1].Artists[1] != "坂本龍一" {
		t.Errorf("unexpected content: %+v", got)
	}
}

func TestWriteFile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "tracks.json")
	if err := WriteFile(path, sample); err == nil {
		t.Error("expected error for missing directory")
	}
}
