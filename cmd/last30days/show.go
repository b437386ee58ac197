// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/last30days/internal/index"
	"github.com/pdiddy/last30days/internal/render"
	"github.com/pdiddy/last30days/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show [text]",
	Short: "List items from the last run's report index",
	Long: `Show reads report.db from the output directory and lists the last run's
items in ranked order. An optional text argument filters by title or
summary substring.`,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	dir, err := outDir()
	if err != nil {
		return err
	}
	platform, _ := cmd.Flags().GetString("platform")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	f := index.Filter{Text: strings.Join(args, " "), Limit: limit}
	switch types.Platform(platform) {
	case "":
	case types.PlatformForum, types.PlatformMicroblog:
		f.Platform = types.Platform(platform)
	default:
		return fmt.Errorf("unknown platform %q: use reddit or x", platform)
	}

	x, err := index.Open(filepath.Join(dir, index.FileName))
	if err != nil {
		return fmt.Errorf("no report found in %s (run last30days <topic> first): %w", dir, err)
	}
	defer x.Close()

	ctx := context.Background()
	run, err := x.Run(ctx)
	if err != nil {
		return err
	}
	items, err := x.Items(ctx, f)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	formatShowTable(run, items)
	return nil
}

func formatShowTable(run types.RunResult, items []types.ResearchItem) {
	fmt.Printf("%s (%s to %s, %s)\n\n", run.Topic, run.FromDate, run.ToDate, run.Mode)
	if len(items) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-6s  %-50s  %-22s  %-10s  %s\n",
		"ID", "Score", "Title", "Engagement", "Date", "URL")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 130))
	for _, it := range items {
		title := it.Title
		if r := []rune(title); len(r) > 50 {
			title = string(r[:47]) + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4s  %-6.2f  %-50s  %-22s  %-10s  %s\n",
			it.ID, it.Score, title, render.Engagement(it), it.Date.Format("2006-01-02"), it.URL)
	}
	fmt.Fprintf(os.Stdout, "\n%d items\n", len(items))
}

func init() {
	showCmd.Flags().String("platform", "", "only items from this platform: reddit|x")
	showCmd.Flags().Int("limit", 0, "maximum number of items (0 = all)")
	showCmd.Flags().Bool("json", false, "output items as JSON")
	rootCmd.AddCommand(showCmd)
}
