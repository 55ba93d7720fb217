package config

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jfmyers9/tracklist/pkg/spotify"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config holds application configuration
type Config struct {
	// Per-request timeout for Spotify calls
	Timeout time.Duration

	// Browser identity sent to Spotify
	UserAgent string
	Locale    string

	// Endpoint overrides, mostly useful for testing
	TokenURL   string
	APIBaseURL string

	// Output destinations
	OutputFile  string // JSON export, default tracks.json
	ExportDB    string // SQLite export history, empty disables
	MetricsFile string // Prometheus textfile, empty disables

	// Number of URLs resolved at once
	Concurrency int

	// Report line width in display columns (0 = unlimited)
	Width int

	LogLevel string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	return load(viper.New(), getConfigDir(), ".")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Set defaults
	v.SetDefault("timeout", spotify.DefaultTimeout)
	v.SetDefault("user_agent", spotify.DefaultUserAgent)
	v.SetDefault("locale", "fr-FR")
	v.SetDefault("token_url", spotify.DefaultTokenURL)
	v.SetDefault("api_base_url", spotify.DefaultAPIBaseURL)
	v.SetDefault("output_file", "tracks.json")
	v.SetDefault("export_db", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("concurrency", 4)
	v.SetDefault("width", 0)
	v.SetDefault("log_level", "info")

	// Read config file (optional - don't fail if missing)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Read from environment variables
	v.SetEnvPrefix("TRACKLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Timeout:     v.GetDuration("timeout"),
		UserAgent:   v.GetString("user_agent"),
		Locale:      v.GetString("locale"),
		TokenURL:    v.GetString("token_url"),
		APIBaseURL:  v.GetString("api_base_url"),
		OutputFile:  v.GetString("output_file"),
		ExportDB:    v.GetString("export_db"),
		MetricsFile: v.GetString("metrics_file"),
		Concurrency: v.GetInt("concurrency"),
		Width:       v.GetInt("width"),
		LogLevel:    v.GetString("log_level"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at request time
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	}
	if _, err := c.AcceptLanguage(); err != nil {
		return err
	}
	return nil
}

// AcceptLanguage turns the configured locale into a header value the
// way browsers do: "fr-FR" becomes "fr-FR,fr;q=0.9".
func (c *Config) AcceptLanguage() (string, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return "", fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	base, _ := tag.Base()
	if base.String() == tag.String() {
		return tag.String(), nil
	}
	return fmt.Sprintf("%s,%s;q=0.9", tag, base), nil
}

// RequestConfig builds the per-request settings passed to the Spotify client
func (c *Config) RequestConfig() (spotify.RequestConfig, error) {
	lang, err := c.AcceptLanguage()
	if err != nil {
		return spotify.RequestConfig{}, err
	}
	h := make(http.Header)
	h.Set("User-Agent", c.UserAgent)
	h.Set("Accept-Language", lang)
	return spotify.RequestConfig{Headers: h, Timeout: c.Timeout}, nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "tracklist")
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}
