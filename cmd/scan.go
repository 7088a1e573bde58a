package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/alsdiag/alsdiag/internal/rules"
	"github.com/alsdiag/alsdiag/internal/scan"
)

var (
	scanOutput  string
	scanWorkers int
	scanPattern string
	scanTop     int
)

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "Scan a directory tree of project files",
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		validFormats := []string{"cli", "json"}
		if !slices.Contains(validFormats, scanOutput) {
			return fmt.Errorf("invalid output format: %s. Valid options: %v", scanOutput, validFormats)
		}
		if len(args) == 1 {
			info, err := os.Stat(args[0])
			if err != nil {
				return fmt.Errorf("cannot scan %s: %w", args[0], err)
			}
			if !info.IsDir() {
				return fmt.Errorf("not a directory: %s", args[0])
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appConfig()
		if err != nil {
			return err
		}

		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		workers := scanWorkers
		if workers == 0 {
			workers = cfg.Workers
		}

		scanner := scan.NewScanner(rules.NewEngine(cfg.Rules), scan.Options{
			Workers: workers,
			Pattern: scanPattern,
		})
		result, err := scanner.Run(cmd.Context(), root)
		if err != nil {
			return err
		}

		if scanOutput == "json" {
			return printJSON(result)
		}
		renderScan(result, scanTop)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "cli", "Output format")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "Parallel workers (0 = auto)")
	scanCmd.Flags().StringVarP(&scanPattern, "pattern", "p", "", "Only scan files matching this glob")
	scanCmd.Flags().IntVar(&scanTop, "top", 10, "How many best and worst projects to list")
}
