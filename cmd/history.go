package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/internal/diff"
	"github.com/alsdiag/alsdiag/internal/history"
	"github.com/alsdiag/alsdiag/internal/rules"
	"github.com/alsdiag/alsdiag/internal/shared"
	"github.com/alsdiag/alsdiag/utils"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Track project health across saved versions",
}

var historySaveProject string

var historySaveCmd = &cobra.Command{
	Use:               "save [project.als]",
	Short:             "Evaluate a project and append it to its version history",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".als"}),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appConfig()
		if err != nil {
			return err
		}

		proj, err := als.NewParser().ParseFile(args[0])
		if err != nil {
			return err
		}
		engine := rules.NewEngine(cfg.Rules)
		report := engine.Evaluate(proj)

		name := proj.Name
		if historySaveProject != "" {
			name = historySaveProject
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		scanID := uuid.NewString()

		// Diff against the stored snapshot of the previous version so the
		// pattern learner gets change records for free.
		var changes []diff.Change
		latest, found, err := store.Latest(ctx, name)
		if err != nil {
			return err
		}
		if found {
			delta := diff.NewDiffer(engine, diff.DefaultOptions()).Compare(latest.Snapshot, proj)
			changes = delta.Changes
			renderTransition(latest.Report.Score, report.Score, delta)
		}

		err = store.Append(ctx, history.VersionRecord{
			ScanID:    scanID,
			Project:   name,
			Timestamp: time.Now(),
			Report:    report,
			Snapshot:  proj,
		})
		if err != nil {
			return err
		}
		if len(changes) > 0 {
			if err := store.RecordChanges(ctx, name, scanID, changes); err != nil {
				return err
			}
		}

		fmt.Printf("💾 Saved %q: score %.1f (%s)\n", name, report.Score, report.Grade)
		return nil
	},
}

var historyTrendCmd = &cobra.Command{
	Use:   "trend [project-name]",
	Short: "Show how a project's health is moving",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		recs, err := store.History(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		trend, err := history.AnalyzeTrend(args[0], recs)
		if err != nil {
			return err
		}
		renderTrend(trend)
		return nil
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with saved history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		projects, err := store.Projects(ctx)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No saved versions yet. Run 'alsdiag history save <project.als>' first.")
			return nil
		}
		for _, name := range projects {
			latest, found, err := store.Latest(ctx, name)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			fmt.Printf("%-32s %6.1f (%s)  %s\n", name, latest.Report.Score,
				latest.Report.Grade, latest.Timestamp.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func openStore(cfg shared.Config) (history.Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}
	store, err := history.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return history.Serialized(store), nil
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historySaveCmd.Flags().StringVar(&historySaveProject, "project", "", "store under this project name instead of the one in the file")

	historyCmd.AddCommand(historySaveCmd)
	historyCmd.AddCommand(historyTrendCmd)
	historyCmd.AddCommand(historyListCmd)
}
