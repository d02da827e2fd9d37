package scrape

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cardscout/cardscout-go/internal/conf"
	"github.com/cardscout/cardscout-go/internal/datastore"
	"github.com/cardscout/cardscout-go/internal/priceguide"
)

// Command creates the scrape command, which collects price guide data.
func Command(settings *conf.Settings) *cobra.Command {
	var sport string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the online price guide for graded card values",
		Long:  "Discover price guide sets for the chosen sport, scrape graded values for each set and store them in the database. Interrupting the run is safe, already scraped sets are skipped on the next run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := datastore.New(settings)
			if err := store.Open(); err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			scraper := priceguide.New(settings, store)
			stats, err := scraper.Run(ctx, sport)
			if stats != nil {
				fmt.Printf("Discovered %d sets, scraped %d sets and %d cards\n",
					stats.SetsDiscovered, stats.SetsScraped, stats.CardsScraped)
			}
			if err != nil {
				return err
			}

			if settings.Scraper.Export.Enabled {
				n, err := scraper.ExportHighValueCSV(settings.Scraper.Export.Path)
				if err != nil {
					return err
				}
				fmt.Printf("Exported %d high value cards to %s\n", n, settings.Scraper.Export.Path)
			}
			return nil
		},
	}

	setupFlags(cmd, settings, &sport)
	return cmd
}

// setupFlags configures flags specific to the scrape command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings, sport *string) {
	cmd.Flags().StringVarP(sport, "sport", "s", "all", "Sport to scrape (baseball, basketball, football, hockey, soccer, boxing, golf, racing or all)")
	cmd.Flags().Float64Var(&settings.Scraper.Delay, "delay", viper.GetFloat64("scraper.delay"), "Seconds to wait between requests")
	cmd.Flags().Float64Var(&settings.Scraper.MinValue, "minvalue", viper.GetFloat64("scraper.minvalue"), "Minimum graded value for the export")
	cmd.Flags().BoolVar(&settings.Scraper.Export.Enabled, "export", viper.GetBool("scraper.export.enabled"), "Write high value cards to a CSV after scraping")
	cmd.Flags().StringVar(&settings.Scraper.Export.Path, "exportpath", viper.GetString("scraper.export.path"), "Path of the high value CSV export")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}
