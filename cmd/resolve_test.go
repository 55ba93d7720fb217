package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jfmyers9/tracklist/internal/metrics"
	"github.com/jfmyers9/tracklist/pkg/spotify"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

// newFakeSpotify serves a token, one album (al, two tracks) and one
// track (t9). Any other path returns 404.
func newFakeSpotify(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/get_access_token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"accessToken": "tok", "isAnonymous": true})
	})
	mux.HandleFunc("/v1/albums/al", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "Homogenic"})
	})
	mux.HandleFunc("/v1/albums/al/tracks", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []any{
				map[string]any{"id": "t1", "name": "Hunter", "duration_ms": 255000, "artists": []any{map[string]any{"name": "Björk"}}},
				map[string]any{"id": "t2", "name": "Jóga", "duration_ms": 305000, "artists": []any{map[string]any{"name": "Björk"}}},
			},
			"next": nil,
		})
	})
	mux.HandleFunc("/v1/tracks/t9", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "t9", "name": "Solo", "duration_ms": 65000,
			"artists": []any{map[string]any{"name": "Frank Ocean"}},
			"album":   map[string]any{"name": "Blonde"},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokenCalls
}

func newTestSpotifyClient(t *testing.T, srv *httptest.Server) *spotify.Client {
	t.Helper()

	client, err := spotify.NewClient(spotify.Config{
		HTTPClient: srv.Client(),
		TokenURL:   srv.URL + "/get_access_token",
		APIBaseURL: srv.URL + "/v1",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestPromptURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"trims whitespace", "  https://open.spotify.com/track/abc  \n", "https://open.spotify.com/track/abc", false},
		{"no trailing newline", "https://open.spotify.com/album/x", "https://open.spotify.com/album/x", false},
		{"only first line", "https://open.spotify.com/track/a\nhttps://open.spotify.com/track/b\n", "https://open.spotify.com/track/a", false},
		{"empty line", "\n", "", true},
		{"eof", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := promptURL(strings.NewReader(tt.input), &out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("promptURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("promptURL() = %q, want %q", got, tt.want)
			}
			if !strings.Contains(out.String(), "Spotify URL") {
				t.Errorf("prompt not written, got %q", out.String())
			}
		})
	}
}

func TestResolveAll_KeepsArgumentOrder(t *testing.T) {
	srv, tokenCalls := newFakeSpotify(t)
	client := newTestSpotifyClient(t, srv)
	rec := metrics.New()

	urls := []string{
		"https://open.spotify.com/track/t9",
		"https://open.spotify.com/album/al?si=share",
		"https://open.spotify.com/track/t9",
	}
	results, err := resolveAll(context.Background(), client, urls, 2, rec, zerolog.Nop())
	if err != nil {
		t.Fatalf("resolveAll() error = %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Ref.Kind != spotify.KindTrack || results[1].Ref.Kind != spotify.KindAlbum {
		t.Errorf("results out of order: %v, %v", results[0].Ref, results[1].Ref)
	}
	if len(results[1].Tracks) != 2 || results[1].Tracks[1].Album != "Homogenic" {
		t.Errorf("unexpected album tracks %+v", results[1].Tracks)
	}
	if results[1].URL != urls[1] {
		t.Errorf("URL = %q, want %q", results[1].URL, urls[1])
	}
	if n := tokenCalls.Load(); n != 3 {
		t.Errorf("expected one token per URL, got %d", n)
	}
	if got := testutil.ToFloat64(rec.ResolutionsTotal.WithLabelValues("track", "success")); got != 2 {
		t.Errorf("track successes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.TracksResolved.WithLabelValues("album")); got != 2 {
		t.Errorf("album tracks = %v, want 2", got)
	}
}

func TestResolveAll_InvalidURLBeforeNetwork(t *testing.T) {
	srv, tokenCalls := newFakeSpotify(t)
	client := newTestSpotifyClient(t, srv)

	_, err := resolveAll(context.Background(), client, []string{
		"https://open.spotify.com/track/t9",
		"https://example.com/nope",
	}, 4, metrics.New(), zerolog.Nop())

	var urlErr *spotify.InvalidURLError
	if !errors.As(err, &urlErr) {
		t.Fatalf("resolveAll() error = %v, want *InvalidURLError", err)
	}
	if n := tokenCalls.Load(); n != 0 {
		t.Errorf("expected no requests, got %d token calls", n)
	}
}

func TestResolveAll_FailureReturnsNoResults(t *testing.T) {
	srv, _ := newFakeSpotify(t)
	client := newTestSpotifyClient(t, srv)
	rec := metrics.New()

	results, err := resolveAll(context.Background(), client, []string{
		"https://open.spotify.com/track/t9",
		"https://open.spotify.com/playlist/missing",
	}, 1, rec, zerolog.Nop())

	var fetchErr *spotify.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("resolveAll() error = %v, want *FetchError", err)
	}
	if !strings.Contains(err.Error(), "playlist/missing") {
		t.Errorf("error should name the failing URL: %v", err)
	}
	if results != nil {
		t.Errorf("expected no results, got %d", len(results))
	}
	if got := testutil.ToFloat64(rec.ResolutionsTotal.WithLabelValues("playlist", "error")); got != 1 {
		t.Errorf("playlist errors = %v, want 1", got)
	}
}

func TestResolveCommand(t *testing.T) {
	srv, _ := newFakeSpotify(t)
	dir := t.TempDir()

	t.Setenv("HOME", dir)
	t.Setenv("TRACKLIST_TOKEN_URL", srv.URL+"/get_access_token")
	t.Setenv("TRACKLIST_API_BASE_URL", srv.URL+"/v1")

	output := filepath.Join(dir, "out.json")
	db := filepath.Join(dir, "exports.db")
	metricsFile := filepath.Join(dir, "tracklist.prom")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{
		"resolve",
		"--log-level", "error",
		"-o", output,
		"--db", db,
		"--metrics-file", metricsFile,
		"https://open.spotify.com/album/al",
		"https://open.spotify.com/track/t9",
	})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("resolve error = %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"2 tracks found", "1 tracks found", "Björk — Jóga (5:05)", "Frank Ocean — Solo (1:05)", "Exported to " + output} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	var tracks []spotify.TrackRecord
	if err := json.Unmarshal(data, &tracks); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(tracks) != 3 || tracks[0].ID != "t1" || tracks[2].ID != "t9" {
		t.Errorf("unexpected export %+v", tracks)
	}

	if _, err := os.Stat(metricsFile); err != nil {
		t.Errorf("metrics file not written: %v", err)
	}

	// The recorded exports are visible through the exports command
	stdout.Reset()
	rootCmd.SetArgs([]string{"exports", "--db", db})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("exports error = %v", err)
	}
	listing := stdout.String()
	if !strings.Contains(listing, "https://open.spotify.com/album/al") || !strings.Contains(listing, "album") {
		t.Errorf("exports listing missing album:\n%s", listing)
	}
	if lines := strings.Count(strings.TrimSpace(listing), "\n") + 1; lines != 2 {
		t.Errorf("expected 2 exports listed, got %d:\n%s", lines, listing)
	}
}
