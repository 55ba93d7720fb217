package spotify

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTokenURL is the web player's anonymous token endpoint.
	DefaultTokenURL = "https://open.spotify.com/get_access_token"

	// DefaultAPIBaseURL is the Spotify Web API root.
	DefaultAPIBaseURL = "https://api.spotify.com/v1"

	// DefaultTimeout bounds every request. There is no retry.
	DefaultTimeout = 15 * time.Second

	// DefaultUserAgent is a desktop browser user agent. The token endpoint
	// rejects requests that do not look like they come from a browser.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultAcceptLanguage is sent with every request.
	DefaultAcceptLanguage = "fr-FR,fr;q=0.9"
)

// Config holds client configuration.
type Config struct {
	HTTPClient *http.Client  // Optional: HTTP client (defaults to http.DefaultClient)
	Request    RequestConfig // Optional: headers and timeout applied to every request
	TokenURL   string        // Optional: token endpoint (defaults to DefaultTokenURL, used for testing)
	APIBaseURL string        // Optional: API root (defaults to DefaultAPIBaseURL, used for testing)
	Logger     Logger        // Optional: Logger interface for debug logging
	Observer   Observer      // Optional: receives one call per completed HTTP request
}

// RequestConfig is the explicit per-request configuration. It is copied
// into every outgoing request; nothing is set on a shared default client.
type RequestConfig struct {
	Headers http.Header   // Extra headers; User-Agent and Accept-Language default when absent
	Timeout time.Duration // Per-request bound (defaults to DefaultTimeout)
}

// DefaultRequestConfig returns the browser-like header set and timeout
// the token endpoint expects.
func DefaultRequestConfig() RequestConfig {
	h := make(http.Header)
	h.Set("User-Agent", DefaultUserAgent)
	h.Set("Accept-Language", DefaultAcceptLanguage)
	return RequestConfig{Headers: h, Timeout: DefaultTimeout}
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Observer is an optional hook for instrumentation.
type Observer interface {
	// ObserveRequest is called after each HTTP round trip. endpoint is a
	// stable label such as "token" or "playlist_tracks"; code is the HTTP
	// status, or 0 when no response was received.
	ObserveRequest(endpoint string, code int, elapsed time.Duration)
}

// Client is the main entry point for resolving Spotify URLs.
//
// A Client holds no per-resolution state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	request    RequestConfig
	tokenURL   string
	apiBaseURL string
	logger     Logger
	observer   Observer
}

// NewClient creates a new Spotify client.
//
// Returns an error if the configured timeout is negative.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Request.Timeout < 0 {
		return nil, fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, cfg.Request.Timeout)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	request := DefaultRequestConfig()
	for k, vs := range cfg.Request.Headers {
		request.Headers.Del(k)
		for _, v := range vs {
			request.Headers.Add(k, v)
		}
	}
	if cfg.Request.Timeout > 0 {
		request.Timeout = cfg.Request.Timeout
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	apiBaseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}

	return &Client{
		httpClient: httpClient,
		request:    request,
		tokenURL:   tokenURL,
		apiBaseURL: apiBaseURL,
		logger:     cfg.Logger,
		observer:   cfg.Observer,
	}, nil
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}

func (c *Client) observe(endpoint string, code int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(endpoint, code, elapsed)
	}
}
