// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/dedupe-engine/internal/dedupe"
	"github.com/pdiddy/dedupe-engine/internal/records"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe [files...]",
	Short: "Find duplicates in one or more record files",
	Long: `Dedupe reads each file (JSON, YAML, or CSL-YAML, chosen by extension), runs
the configured strategy, and applies the action:

  STATS   attach {score, dupeOf} to every record under the action field
  MARK    attach the OK or DUPE mark under the action field
  DELETE  drop every record scoring at or above the threshold

A single file is written to stdout unless --write is given. With several
files, each result is written next to its input as <name>.dedupe.<ext> and
the files are processed concurrently.`,
	Args: cobra.MinimumNArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		bindEngineFlags(cmd)
	},
	RunE: runDedupe,
}

// fileSummary reports one processed file.
type fileSummary struct {
	Path       string
	Output     string
	Records    int
	Duplicates int
	Kept       int
}

func runDedupe(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")
	showSummary, _ := cmd.Flags().GetBool("summary")
	jobs, _ := cmd.Flags().GetInt("jobs")

	engine, err := newEngine()
	if err != nil {
		return err
	}
	cfg, err := dedupeConfig()
	if err != nil {
		return err
	}
	opts := dedupe.FromConfig(cfg)
	settings := dedupe.NewSettings(opts...)
	if err := settings.Validate(); err != nil {
		return err
	}

	toStdout := len(args) == 1 && !write
	summaries := make([]fileSummary, len(args))

	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	var stdout sync.Mutex
	for i, path := range args {
		g.Go(func() error {
			s, err := dedupeFile(engine, path, settings, toStdout, &stdout)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			summaries[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if showSummary {
		printSummary(os.Stderr, settings, summaries)
	}
	return nil
}

func dedupeFile(engine *dedupe.Engine, path string, settings dedupe.Settings, toStdout bool, stdout *sync.Mutex) (fileSummary, error) {
	format, err := records.FormatFromPath(path)
	if err != nil {
		return fileSummary{}, err
	}
	input, err := records.ReadFile(path)
	if err != nil {
		return fileSummary{}, err
	}

	results, err := engine.Score(input, dedupe.WithSettings(settings))
	if err != nil {
		return fileSummary{}, err
	}
	output, err := engine.Dedupe(input, dedupe.WithSettings(settings))
	if err != nil {
		return fileSummary{}, err
	}

	s := fileSummary{Path: path, Records: len(input), Kept: len(output)}
	for _, r := range results {
		if r.IsDuplicate(settings.Threshold) {
			s.Duplicates++
		}
	}

	if toStdout {
		stdout.Lock()
		defer stdout.Unlock()
		s.Output = "-"
		return s, records.Write(os.Stdout, output, format)
	}
	s.Output = records.OutputPath(path)
	if err := records.WriteFile(s.Output, output); err != nil {
		return fileSummary{}, err
	}
	logger.Info("wrote dedupe output", "input", path, "output", s.Output, "records", len(output))
	return s, nil
}

func printSummary(w io.Writer, settings dedupe.Settings, summaries []fileSummary) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "\n%s strategy=%s action=%s threshold=%v\n",
		cyan("Dedupe summary"), settings.Strategy, settings.Action, settings.Threshold)
	fmt.Fprintf(w, "%-40s  %8s  %10s  %8s  %s\n", "File", "Records", "Duplicates", "Kept", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	var total, dupes int
	for _, s := range summaries {
		path := s.Path
		if len(path) > 40 {
			path = "..." + path[len(path)-37:]
		}
		count := green(fmt.Sprintf("%10d", s.Duplicates))
		if s.Duplicates > 0 {
			count = yellow(fmt.Sprintf("%10d", s.Duplicates))
		}
		fmt.Fprintf(w, "%-40s  %8d  %s  %8d  %s\n", path, s.Records, count, s.Kept, s.Output)
		total += s.Records
		dupes += s.Duplicates
	}
	fmt.Fprintf(w, "\n%d records, %d duplicates in %d file(s)\n", total, dupes, len(summaries))
}

// engineFlags maps flag names to configuration keys.
var engineFlags = map[string]string{
	"strategy":          "strategy",
	"validate-strategy": "validate_strategy",
	"action":            "action",
	"action-field":      "action_field",
	"threshold":         "threshold",
	"mark-ok":           "mark_ok",
	"mark-dupe":         "mark_dupe",
	"dupe-ref":          "dupe_ref",
	"field-weight":      "field_weight",
	"mark-original":     "mark_original",
}

func addEngineFlags(cmd *cobra.Command) {
	d := dedupe.DefaultSettings()
	f := cmd.Flags()
	f.String("strategy", d.Strategy, "strategy name (see: strategies list)")
	f.Bool("validate-strategy", d.ValidateStrategy, "validate the strategy before running")
	f.String("action", string(d.Action), "action: STATS, MARK, DELETE")
	f.String("action-field", d.ActionField, "record key receiving STATS or MARK output")
	f.Float64("threshold", d.Threshold, "score at or above which a record is a duplicate")
	f.String("mark-ok", d.MarkOK.String(), "MARK value for records below the threshold")
	f.String("mark-dupe", d.MarkDupe.String(), "MARK value for duplicates")
	f.String("dupe-ref", string(d.DupeRef), "dupeOf references: INDEX or RECNUMBER")
	f.String("field-weight", string(d.FieldWeight), "multi-field step scoring: MINIMUM or AVERAGE")
	f.Bool("mark-original", d.MarkOriginal, "record the similarity score on originals too")
}

// bindEngineFlags binds the running command's engine flags to their
// configuration keys.
func bindEngineFlags(cmd *cobra.Command) {
	for flag, key := range engineFlags {
		viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func init() {
	addEngineFlags(dedupeCmd)
	dedupeCmd.Flags().Bool("write", false, "write <name>.dedupe.<ext> even for a single file")
	dedupeCmd.Flags().Bool("summary", false, "print a summary table to stderr")
	dedupeCmd.Flags().Int("jobs", 4, "maximum files processed at once (0 = unlimited)")

	rootCmd.AddCommand(dedupeCmd)
}
