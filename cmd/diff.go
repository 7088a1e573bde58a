package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/internal/diff"
	"github.com/alsdiag/alsdiag/internal/rules"
	"github.com/alsdiag/alsdiag/utils"
)

var diffOutput string

var diffCmd = &cobra.Command{
	Use:               "diff [old.als] [new.als]",
	Short:             "Compare two versions of a project",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".als"}),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		validFormats := []string{"cli", "json"}
		if !slices.Contains(validFormats, diffOutput) {
			return fmt.Errorf("invalid output format: %s. Valid options: %v", diffOutput, validFormats)
		}
		for _, file := range args {
			if _, err := os.Stat(file); os.IsNotExist(err) {
				return fmt.Errorf("file does not exist: %s", file)
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appConfig()
		if err != nil {
			return err
		}

		parser := als.NewParser()
		oldProj, err := parser.ParseFile(args[0])
		if err != nil {
			return err
		}
		newProj, err := parser.ParseFile(args[1])
		if err != nil {
			return err
		}

		differ := diff.NewDiffer(rules.NewEngine(cfg.Rules), diff.DefaultOptions())
		delta := differ.Compare(oldProj, newProj)

		if diffOutput == "json" {
			return printJSON(delta)
		}
		renderDelta(args[0], args[1], delta)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "cli", "Output format")
}
