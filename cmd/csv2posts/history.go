// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/csv2posts/internal/ledger"
	"github.com/pdiddy/csv2posts/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List import runs recorded in the ledger",
	Long: `History reads the SQLite ledger written by import --ledger and lists
recent runs with their source file and counts. Pass --run with a run ID to
list the posts that run wrote.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("ledger")
	if path == "" {
		path = viper.GetString("ledger")
	}
	if path == "" {
		return fmt.Errorf("no ledger configured: pass --ledger or set ledger in csv2posts.yaml")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening ledger %s: %w", path, err)
	}
	cmd.SilenceUsage = true

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, _ := cmd.Flags().GetString("run")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if runID != "" {
		posts, err := store.Posts(cmd.Context(), runID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(posts)
		}
		formatPosts(posts)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(runs)
	}
	formatRuns(runs)
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatRuns(runs []types.RunRecord) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-30s  %7s  %6s\n", "Run", "Started", "Source", "Created", "Failed")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 107))
	for _, r := range runs {
		source := r.Source
		if len(source) > 30 {
			source = "..." + source[len(source)-27:]
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-30s  %7d  %6d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), source, r.Created, r.Failed)
	}
}

func formatPosts(posts []types.PostEntry) {
	if len(posts) == 0 {
		fmt.Println("No posts recorded for this run.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-45s  %s\n", "Line", "File", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, p := range posts {
		title := p.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-5d  %-45s  %s\n", p.Line, p.Filename, title)
	}
	fmt.Fprintf(os.Stdout, "\n%d posts\n", len(posts))
}

func init() {
	historyCmd.Flags().String("ledger", "", "ledger database (default: ledger from config)")
	historyCmd.Flags().String("run", "", "list the posts written by this run ID")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}
