package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jfmyers9/tracklist/internal/config"
	"github.com/jfmyers9/tracklist/internal/store"
	"github.com/spf13/cobra"
)

var exportsDB string

// exportsCmd represents the exports command
var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List exports recorded with --db",
	Long: `List the exports recorded in the SQLite export database.

The database is the one given with --db, or export_db from the config
file (TRACKLIST_EXPORT_DB). Newest exports are listed first.`,
	Args: cobra.NoArgs,
	RunE: runExportsList,
}

var exportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the tracks of one recorded export",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportsShow,
}

var exportsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete recorded exports older than --older-than",
	Args:  cobra.NoArgs,
	RunE:  runExportsPrune,
}

func init() {
	rootCmd.AddCommand(exportsCmd)
	exportsCmd.AddCommand(exportsShowCmd)
	exportsCmd.AddCommand(exportsPruneCmd)

	exportsCmd.PersistentFlags().StringVar(&exportsDB, "db", "", "SQLite export database (overrides config)")
	exportsCmd.Flags().IntP("limit", "n", 20, "Maximum number of exports to list (0=all)")
	exportsShowCmd.Flags().IntP("width", "w", 0, "Truncate report lines to this many columns (0=disabled)")
	exportsPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "Delete exports older than this")
}

// openExportStore opens the database named by --db or the config
func openExportStore() (*store.Store, error) {
	path := exportsDB
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		path = cfg.ExportDB
	}
	if path == "" {
		return nil, errors.New("no export database configured (use --db or TRACKLIST_EXPORT_DB)")
	}

	s, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export database: %w", err)
	}
	return s, nil
}

func runExportsList(cmd *cobra.Command, args []string) error {
	s, err := openExportStore()
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	exports, err := s.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(exports) == 0 {
		fmt.Fprintln(out, "No exports recorded")
		return nil
	}
	for _, e := range exports {
		fmt.Fprintf(out, "%4d  %s  %-8s %5d tracks  %s\n",
			e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Kind, e.TrackCount, e.SourceURL)
	}
	return nil
}

func runExportsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid export id %q", args[0])
	}

	s, err := openExportStore()
	if err != nil {
		return err
	}
	defer s.Close()

	tracks, err := s.Tracks(cmd.Context(), id)
	if err != nil {
		return err
	}

	width, _ := cmd.Flags().GetInt("width")
	printReport(cmd.OutOrStdout(), "", tracks, width)
	return nil
}

func runExportsPrune(cmd *cobra.Command, args []string) error {
	s, err := openExportStore()
	if err != nil {
		return err
	}
	defer s.Close()

	maxAge, _ := cmd.Flags().GetDuration("older-than")
	deleted, err := s.Prune(cmd.Context(), maxAge)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d exports\n", deleted)
	return nil
}
