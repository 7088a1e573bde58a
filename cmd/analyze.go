package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/internal/rules"
	"github.com/alsdiag/alsdiag/utils"
)

var analyzeOutput string

var analyzeCmd = &cobra.Command{
	Use:               "analyze [project.als]",
	Short:             "Analyze a project file's structural health",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".als"}),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		validFormats := []string{"cli", "json"}
		if !slices.Contains(validFormats, analyzeOutput) {
			return fmt.Errorf("invalid output format: %s. Valid options: %v", analyzeOutput, validFormats)
		}

		file := args[0]
		if !strings.HasSuffix(strings.ToLower(file), ".als") {
			return fmt.Errorf("not a Live project file: %s", file)
		}
		if _, err := os.Stat(file); os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", file)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appConfig()
		if err != nil {
			return err
		}

		proj, err := als.NewParser().ParseFile(args[0])
		if err != nil {
			return err
		}
		report := rules.NewEngine(cfg.Rules).Evaluate(proj)

		if analyzeOutput == "json" {
			return printJSON(report)
		}
		renderReport(proj, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "cli", "Output format")

	analyzeCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"cli", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
}
