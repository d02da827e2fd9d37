package load

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cardscout/cardscout-go/internal/analysis"
	"github.com/cardscout/cardscout-go/internal/conf"
	"github.com/cardscout/cardscout-go/internal/datastore"
)

// Command creates the load command, which runs the collection pipeline
// on a CSV export.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [collection.csv]",
		Short: "Analyze a collection export and store grade candidates",
		Long:  "Load a collection CSV export, classify every card against the reference data and store aggregates and grade candidates in the database.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				settings.Input.Path = args[0]
			}
			if settings.Input.Path == "" {
				return fmt.Errorf("no input file given, pass a path or set input.path in the config")
			}

			store := datastore.New(settings)
			if err := store.Open(); err != nil {
				return err
			}
			defer store.Close()

			runner := analysis.NewRunner(settings, store)
			report, err := runner.Run(settings.Input.Path)
			if err != nil {
				return err
			}

			printReport(report)
			return nil
		},
	}

	setupFlags(cmd, settings)
	return cmd
}

func printReport(report *analysis.BatchReport) {
	fmt.Printf("Run %s\n", report.RunID)
	fmt.Printf("  rows read:        %d\n", report.LoadReport.TotalRows)
	fmt.Printf("  cards loaded:     %d\n", report.LoadReport.Loaded)
	fmt.Printf("  rows skipped:     %d\n", len(report.LoadReport.Skipped))
	fmt.Printf("  grade candidates: %d\n", report.ValuableCards)
	fmt.Printf("  player groups:    %d\n", report.PlayerGroups)
	fmt.Printf("  set groups:       %d\n", report.SetGroups)
	for _, f := range report.Failures {
		fmt.Printf("  failed: %s: %v\n", f.Title, f.Err)
	}
}

// setupFlags configures flags specific to the load command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().IntVar(&settings.Analysis.MinPlayerCards, "minplayercards", viper.GetInt("analysis.minplayercards"), "Minimum cards per player to keep an aggregate")
	cmd.Flags().IntVar(&settings.Analysis.MinSetCards, "minsetcards", viper.GetInt("analysis.minsetcards"), "Minimum cards per set to keep an aggregate")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}
