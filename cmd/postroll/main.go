package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "postroll",
		Short: "Roll a scraped submission archive up into per-media and per-submission reports",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./postroll.yaml)")

	root.AddCommand(refreshCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(showCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(watchCmd())

	return root
}

func refreshCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Recompute the derived rollup tables from the archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(workers)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "parallel submission builds (default: from config)")
	return cmd
}

func reportCmd() *cobra.Command {
	var (
		jsonOutput bool
		limit      int
		subreddit  string
		query      string
		author     string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Refresh and show submission rollups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(jsonOutput, limit, subreddit, query, author)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "max rows to show (default: from config)")
	cmd.Flags().StringVar(&subreddit, "subreddit", "", "filter by subreddit")
	cmd.Flags().StringVar(&query, "query", "", "filter by the search query that found the submission")
	cmd.Flags().StringVar(&author, "author", "", "filter by author")
	return cmd
}

func showCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <submission-id>",
		Short: "Show one submission rollup with its media rollups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		dir      string
		toStdout bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the derived relations as serialized rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(dir, toStdout, format)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write one JSON document to stdout instead of files")
	cmd.Flags().StringVar(&format, "format", "json", "file format: json or csv")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show archive row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate archive rows and count orphaned back-references",
		// An integrity failure is not a usage error.
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck()
		},
	}
}

func watchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh the rollups periodically until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (default: from config)")
	return cmd
}
