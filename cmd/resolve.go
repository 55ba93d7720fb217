package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jfmyers9/tracklist/internal/config"
	"github.com/jfmyers9/tracklist/internal/export"
	"github.com/jfmyers9/tracklist/internal/metrics"
	"github.com/jfmyers9/tracklist/internal/store"
	"github.com/jfmyers9/tracklist/pkg/spotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [url...]",
	Short: "List the tracks of Spotify playlists, albums or tracks",
	Long: `Resolve one or more Spotify URLs into their tracks.

Each URL may point at a playlist, an album or a single track; share links
with query strings work as-is. Without arguments the URL is read from
standard input.

The tracks are printed as a numbered list and exported to a JSON file
(tracks.json by default). Several URLs are resolved concurrently and
exported together, in argument order.`,
	Example: `  tracklist resolve https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M
  tracklist resolve -o rumours.json https://open.spotify.com/album/1bt6q2SruMsBtcerNVtpZB
  tracklist resolve --db ~/.local/share/tracklist/exports.db URL1 URL2`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringP("output", "o", "", "JSON output file (overrides config, default tracks.json)")
	resolveCmd.Flags().Bool("no-export", false, "Do not write the JSON file")
	resolveCmd.Flags().String("db", "", "Record the export in this SQLite database (overrides config)")
	resolveCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file after the run (overrides config)")
	resolveCmd.Flags().IntP("concurrency", "c", 0, "URLs resolved at once (overrides config)")
	resolveCmd.Flags().IntP("width", "w", 0, "Truncate report lines to this many columns (0=disabled, overrides config)")
}

// resolution is the outcome for one input URL
type resolution struct {
	URL    string
	Ref    spotify.ResourceReference
	Tracks []spotify.TrackRecord
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyResolveFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	logger := setupLogger(logFile, level)

	urls := args
	if len(urls) == 0 {
		u, err := promptURL(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		urls = []string{u}
	}

	rec := metrics.New()
	defer func() {
		if cfg.MetricsFile == "" {
			return
		}
		if err := rec.WriteFile(cfg.MetricsFile); err != nil {
			logger.Error().Err(err).Str("path", cfg.MetricsFile).Msg("Failed to write metrics")
		}
	}()

	client, err := newSpotifyClient(cfg, logger, rec)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Resolving...")

	results, err := resolveAll(cmd.Context(), client, urls, cfg.Concurrency, rec, logger)
	if err != nil {
		return err
	}

	var all []spotify.TrackRecord
	for _, r := range results {
		title := ""
		if len(results) > 1 {
			title = fmt.Sprintf("%s (%s)", r.URL, r.Ref.Kind)
		}
		fmt.Fprintln(out)
		printReport(out, title, r.Tracks, cfg.Width)
		all = append(all, r.Tracks...)
	}

	noExport, _ := cmd.Flags().GetBool("no-export")
	if !noExport {
		if err := export.WriteFile(cfg.OutputFile, all); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nExported to %s\n", cfg.OutputFile)
	}

	if cfg.ExportDB != "" {
		if err := saveExports(cmd.Context(), cfg.ExportDB, results); err != nil {
			return err
		}
		logger.Info().Str("db", cfg.ExportDB).Int("exports", len(results)).Msg("Recorded exports")
	}

	return nil
}

// applyResolveFlags lets explicitly set flags override the loaded config
func applyResolveFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputFile, _ = flags.GetString("output")
	}
	if flags.Changed("db") {
		cfg.ExportDB, _ = flags.GetString("db")
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile, _ = flags.GetString("metrics-file")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
}

// promptURL asks for a single URL on out and reads it from in
func promptURL(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Spotify URL (playlist / album / track): ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read URL: %w", err)
		}
		return "", errors.New("no URL given")
	}

	u := strings.TrimSpace(scanner.Text())
	if u == "" {
		return "", errors.New("no URL given")
	}
	return u, nil
}

func newSpotifyClient(cfg *config.Config, logger zerolog.Logger, obs spotify.Observer) (*spotify.Client, error) {
	request, err := cfg.RequestConfig()
	if err != nil {
		return nil, err
	}

	client, err := spotify.NewClient(spotify.Config{
		HTTPClient: &http.Client{},
		Request:    request,
		TokenURL:   cfg.TokenURL,
		APIBaseURL: cfg.APIBaseURL,
		Logger:     spotifyLogger{logger: logger.With().Str("component", "spotify").Logger()},
		Observer:   obs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}
	return client, nil
}

// resolveAll resolves every URL, at most concurrency at a time. Results
// keep the order of urls. The first failure cancels the remaining work.
func resolveAll(ctx context.Context, client *spotify.Client, urls []string, concurrency int, rec *metrics.Recorder, logger zerolog.Logger) ([]resolution, error) {
	// Reject bad input before any network traffic
	refs := make([]spotify.ResourceReference, len(urls))
	for i, u := range urls {
		ref, err := spotify.ParseURL(u)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}

	results := make([]resolution, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range urls {
		g.Go(func() error {
			log := logger.With().Str("url", urls[i]).Str("kind", refs[i].Kind.String()).Logger()
			log.Debug().Msg("Resolving")

			tracks, err := client.Resolve(ctx, refs[i])
			rec.ObserveResolution(refs[i].Kind.String(), len(tracks), err)
			if err != nil {
				log.Error().Err(err).Msg("Resolution failed")
				return fmt.Errorf("%s: %w", urls[i], err)
			}

			log.Info().Int("tracks", len(tracks)).Msg("Resolved")
			results[i] = resolution{URL: urls[i], Ref: refs[i], Tracks: tracks}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func saveExports(ctx context.Context, dbPath string, results []resolution) error {
	s, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open export database: %w", err)
	}
	defer s.Close()

	for _, r := range results {
		if _, err := s.Save(ctx, store.Export{SourceURL: r.URL, Ref: r.Ref, Tracks: r.Tracks}); err != nil {
			return fmt.Errorf("failed to record export of %s: %w", r.URL, err)
		}
	}
	return nil
}
