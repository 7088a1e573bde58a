package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/internal/patterns"
	"github.com/alsdiag/alsdiag/utils"
)

var predictTop int

var predictCmd = &cobra.Command{
	Use:               "predict [project.als]",
	Short:             "Suggest edits the learned patterns expect to help",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".als"}),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := als.NewParser().ParseFile(args[0])
		if err != nil {
			return err
		}

		model, err := learnModel(cmd)
		if err != nil {
			return err
		}
		preds, err := model.Predict(proj)
		if err != nil {
			return describeInsufficientSample(err)
		}
		renderPredictions(proj.Name, preds, predictTop)
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Summarize which kinds of edits have helped or hurt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := learnModel(cmd)
		if err != nil {
			return err
		}
		recs, err := model.Recommend()
		if err != nil {
			return describeInsufficientSample(err)
		}
		renderRecommendations(recs)
		return nil
	},
}

// learnModel rebuilds the pattern model from every recorded change. Full
// recomputation keeps the model consistent with whatever is in the store.
func learnModel(cmd *cobra.Command) (*patterns.Model, error) {
	cfg, err := appConfig()
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	changes, err := store.AllChanges(cmd.Context())
	if err != nil {
		return nil, err
	}
	return patterns.Learn(changes), nil
}

func describeInsufficientSample(err error) error {
	var insufficient *patterns.InsufficientSampleError
	if errors.As(err, &insufficient) {
		fmt.Println("Not enough history to learn from yet.")
		fmt.Println("Save project versions with 'alsdiag history save' to build it up.")
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(recommendCmd)

	predictCmd.Flags().IntVar(&predictTop, "top", 5, "How many suggestions to show")
}
