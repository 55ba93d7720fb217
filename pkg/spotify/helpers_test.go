package spotify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const testToken = "anon-test-token"

// recordedRequest is what the fake server remembers about each call.
type recordedRequest struct {
	Path          string
	Query         string
	Authorization string
	UserAgent     string
	Language      string
}

type requestLog struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (l *requestLog) add(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, recordedRequest{
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		UserAgent:     r.Header.Get("User-Agent"),
		Language:      r.Header.Get("Accept-Language"),
	})
}

func (l *requestLog) all() []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedRequest(nil), l.requests...)
}

// count returns how many requests hit path.
func (l *requestLog) count(path string) int {
	n := 0
	for _, r := range l.all() {
		if r.Path == path {
			n++
		}
	}
	return n
}

// newTestServer starts a fake Spotify serving routes plus a token
// endpoint at /get_access_token unless routes overrides it.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *requestLog) {
	t.Helper()

	log := &requestLog{}
	mux := http.NewServeMux()
	if _, ok := routes["/get_access_token"]; !ok {
		mux.HandleFunc("/get_access_token", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{
				"clientId":                         "web-player",
				"accessToken":                      testToken,
				"accessTokenExpirationTimestampMs": int64(1767225600000),
				"isAnonymous":                      true,
			})
		})
	}
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.add(r)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv, log
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()

	client, err := NewClient(Config{
		HTTPClient: srv.Client(),
		TokenURL:   srv.URL + "/get_access_token",
		APIBaseURL: srv.URL + "/v1",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// jsonTrack builds a track payload. An empty album omits the key.
func jsonTrack(id, name string, ms int64, album string, artistNames ...string) map[string]any {
	as := make([]map[string]any, 0, len(artistNames))
	for _, a := range artistNames {
		as = append(as, map[string]any{"name": a})
	}
	tr := map[string]any{
		"id":          id,
		"name":        name,
		"duration_ms": ms,
		"artists":     as,
	}
	if album != "" {
		tr["album"] = map[string]any{"name": album}
	}
	return tr
}
