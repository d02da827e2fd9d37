package seed

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardscout/cardscout-go/internal/conf"
	"github.com/cardscout/cardscout-go/internal/datastore"
	"github.com/cardscout/cardscout-go/internal/reference"
)

// Command creates the seed command, which loads the bundled reference
// data into the database.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load reference sets, players and keywords into the database",
		Long:  "Populate the database with the bundled reference data: graded-worthy card sets, key players per sport and value keywords. Safe to run repeatedly, existing reference rows are kept.",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := reference.Load()
			if err != nil {
				return err
			}

			store := datastore.New(settings)
			if err := store.Open(); err != nil {
				return err
			}
			defer store.Close()

			if err := reference.Seed(store, data); err != nil {
				return err
			}

			fmt.Printf("Seeded %d sets, %d keywords and key players for %d sports\n",
				len(data.Tier1Sets)+len(data.Tier2Sets), len(data.Keywords), len(data.Players))
			return nil
		},
	}
}
