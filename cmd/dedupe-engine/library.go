// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dedupe-engine/internal/dedupe"
	"github.com/pdiddy/dedupe-engine/internal/library"
	"github.com/pdiddy/dedupe-engine/internal/records"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Keep reference lists and dedupe runs in a local database",
	Long: `Library manages a local SQLite database of imported reference lists
and the results of dedupe runs over them. Runs under different strategies
can be listed and compared without re-reading the source files.`,
}

// --- import subcommand ---

var libraryImportCmd = &cobra.Command{
	Use:   "import <source> <file>",
	Short: "Import a record file under a source name",
	Long: `Import reads a JSON, YAML, or CSL-YAML record file and stores it under
the given source name, replacing any earlier import with that name.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		recs, err := records.ReadFile(args[1])
		if err != nil {
			return err
		}
		store, err := library.Open(libraryConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		src, err := store.Import(context.Background(), args[0], recs)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Imported %d records as %s\n", src.Records, src.Name)
		return nil
	},
}

// --- run subcommand ---

var libraryRunCmd = &cobra.Command{
	Use:   "run <source>",
	Short: "Score an imported source and record the run",
	Args:  cobra.ExactArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		bindEngineFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		cfg, err := dedupeConfig()
		if err != nil {
			return err
		}
		store, err := library.Open(libraryConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.Run(context.Background(), engine, args[0], dedupe.FromConfig(cfg)...)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Run %s: %d of %d records at or above %v under %s\n",
			run.ID, run.Duplicates, run.Records, run.Threshold, run.Strategy)
		return nil
	},
}

// --- runs subcommand ---

var libraryRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		store, err := library.Open(libraryConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Runs(context.Background(), source)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(runs)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-12s  %9s  %7s  %10s  %s\n",
			"ID", "Source", "Strategy", "Threshold", "Records", "Duplicates", "Created")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))
		for _, r := range runs {
			fmt.Fprintf(os.Stdout, "%s  %-16s  %-12s  %9.2f  %7d  %10d  %s\n",
				cyan(r.ID), r.Source, r.Strategy, r.Threshold, r.Records, r.Duplicates,
				r.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

// --- duplicates subcommand ---

var libraryDuplicatesCmd = &cobra.Command{
	Use:   "duplicates <run-id>",
	Short: "List the records a run scored at or above a threshold",
	Long: `Duplicates lists the records of a run whose score is at or above the
threshold. The run's own threshold is used unless --threshold is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		store, err := library.Open(libraryConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		run, err := store.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		threshold := run.Threshold
		if cmd.Flags().Changed("threshold") {
			threshold, _ = cmd.Flags().GetFloat64("threshold")
		}

		dupes, err := store.Duplicates(ctx, run.ID, threshold)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(dupes)
		}
		if len(dupes) == 0 {
			fmt.Println("No duplicates found.")
			return nil
		}

		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(os.Stdout, "%-6s  %-5s  %-10s  %s\n", "Pos", "Score", "Dupe of", "Title")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
		for _, d := range dupes {
			title := d.Record.Text("title")
			if len(title) > 60 {
				title = title[:57] + "..."
			}
			fmt.Fprintf(os.Stdout, "%-6d  %s  %-10s  %s\n",
				d.Position, yellow(fmt.Sprintf("%5.2f", d.Score)), formatRefs(d.DupeOf), title)
		}
		fmt.Fprintf(os.Stdout, "\n%d duplicates\n", len(dupes))
		return nil
	},
}

func formatRefs(refs []int) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = fmt.Sprint(r)
	}
	return strings.Join(parts, ",")
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	libraryCmd.PersistentFlags().String("library-dir", "library", "directory containing library.db")
	libraryCmd.PersistentFlags().Int("max-results", 50, "maximum rows returned by listings")
	viper.BindPFlag("library_dir", libraryCmd.PersistentFlags().Lookup("library-dir"))
	viper.BindPFlag("max_results", libraryCmd.PersistentFlags().Lookup("max-results"))

	addEngineFlags(libraryRunCmd)

	libraryRunsCmd.Flags().String("source", "", "only list runs over this source")
	libraryRunsCmd.Flags().Bool("json", false, "output runs as JSON")

	libraryDuplicatesCmd.Flags().Float64("threshold", 0, "score threshold (default: the run's threshold)")
	libraryDuplicatesCmd.Flags().Bool("json", false, "output duplicates as JSON")

	libraryCmd.AddCommand(libraryImportCmd)
	libraryCmd.AddCommand(libraryRunCmd)
	libraryCmd.AddCommand(libraryRunsCmd)
	libraryCmd.AddCommand(libraryDuplicatesCmd)

	rootCmd.AddCommand(libraryCmd)
}
