// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dedupe-engine/internal/dedupe"
	"github.com/pdiddy/dedupe-engine/internal/strategy"
	"github.com/pdiddy/dedupe-engine/pkg/types"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List, show, and validate dedupe strategies",
	Long: `Strategies inspects the preset strategies and any loaded from
--strategies-dir. Use validate to check strategy files before running them.`,
}

var strategiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered strategies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%-14s  %-5s  %s\n", "Name", "Steps", "Title")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
		for _, name := range engine.Strategies.Names() {
			st, _ := engine.Strategies.Lookup(name)
			fmt.Fprintf(os.Stdout, "%-14s  %5d  %s\n", name, len(st.Steps), st.Title)
		}
		return nil
	},
}

var strategiesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a strategy as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		st, ok := engine.Strategies.Lookup(args[0])
		if !ok {
			return fmt.Errorf("%w %q", dedupe.ErrUnknownStrategy, args[0])
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(st)
	},
}

var strategiesValidateCmd = &cobra.Command{
	Use:   "validate [names or files...]",
	Short: "Check strategies against the registered comparisons and mutators",
	Long: `Validate checks each named strategy, or each strategy YAML file, and
prints every violation found. With no arguments every registered strategy is
checked.`,
	RunE: runStrategiesValidate,
}

func runStrategiesValidate(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = engine.Strategies.Names()
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	invalid := 0
	for _, arg := range args {
		name, st, err := lookupStrategy(engine, arg)
		if err != nil {
			return err
		}
		violations := strategy.Validate(st, engine.Comparisons, engine.Mutators)
		if len(violations) == 0 {
			fmt.Fprintf(os.Stdout, "%s %s\n", green("OK     "), name)
			continue
		}
		invalid++
		fmt.Fprintf(os.Stdout, "%s %s\n", red("INVALID"), name)
		for _, v := range violations {
			fmt.Fprintf(os.Stdout, "        - %s\n", v)
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d strategy(ies) invalid", invalid)
	}
	return nil
}

// lookupStrategy resolves arg as a strategy file when one exists at that
// path, otherwise as a registered name.
func lookupStrategy(engine *dedupe.Engine, arg string) (string, types.Strategy, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		name, st, err := strategy.LoadFile(arg)
		if err != nil {
			return "", types.Strategy{}, err
		}
		return name, st, nil
	}
	st, ok := engine.Strategies.Lookup(arg)
	if !ok {
		return "", types.Strategy{}, fmt.Errorf("%w %q", dedupe.ErrUnknownStrategy, arg)
	}
	return arg, st, nil
}

func init() {
	strategiesCmd.AddCommand(strategiesListCmd)
	strategiesCmd.AddCommand(strategiesShowCmd)
	strategiesCmd.AddCommand(strategiesValidateCmd)

	rootCmd.AddCommand(strategiesCmd)
}
