package listing

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardscout/cardscout-go/internal/conf"
	"github.com/cardscout/cardscout-go/internal/marketplace"
	"github.com/cardscout/cardscout-go/internal/reference"
)

// Command creates the listing command, which builds a marketplace
// listing for a single card. It works offline against the bundled
// reference data, no database is needed.
func Command(settings *conf.Settings) *cobra.Command {
	var card marketplace.CardDetails
	var csvPath string

	cmd := &cobra.Command{
		Use:   "listing",
		Short: "Build a marketplace listing for a card",
		Long:  "Generate a ready-to-paste marketplace listing (title, description, item specifics and search links) for a single card from its details.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if card.Player == "" {
				return fmt.Errorf("a player name is required, use --player")
			}
			if card.Condition == "" {
				card.Condition = "Near Mint or Better"
			}

			data, err := reference.Load()
			if err != nil {
				return err
			}
			built := marketplace.BuildListing(card, reference.NewLookupsFromData(data))

			if csvPath != "" {
				return writeCSV(csvPath, built)
			}

			fmt.Println(built.FormatText())
			fmt.Printf("Sold listings:   %s\n", marketplace.SearchURL(built.Title, marketplace.SearchOptions{
				Sold: true, ExcludeAutos: true, MinPrice: settings.Marketplace.MinPrice,
			}))
			fmt.Printf("Active listings: %s\n", marketplace.SearchURL(built.Title, marketplace.SearchOptions{ExcludeAutos: true}))
			return nil
		},
	}

	setupFlags(cmd, &card, &csvPath)
	return cmd
}

func writeCSV(path string, built *marketplace.Listing) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(marketplace.CSVHeader); err != nil {
		return err
	}
	if err := w.Write(built.CSVRow()); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// setupFlags configures flags specific to the listing command.
func setupFlags(cmd *cobra.Command, card *marketplace.CardDetails, csvPath *string) {
	cmd.Flags().StringVar(&card.Player, "player", "", "Player name")
	cmd.Flags().StringVar(&card.Year, "year", "", "Card year")
	cmd.Flags().StringVar(&card.Brand, "brand", "", "Card brand")
	cmd.Flags().StringVar(&card.SetName, "set", "", "Set name")
	cmd.Flags().StringVar(&card.Sport, "sport", "", "Sport")
	cmd.Flags().StringVar(&card.CardNumber, "number", "", "Card number")
	cmd.Flags().StringVar(&card.Team, "team", "", "Team")
	cmd.Flags().StringVar(&card.Variety, "variety", "", "Variety, for example Refractor or Silver Prizm")
	cmd.Flags().StringVar(&card.Features, "features", "", "Features, for example Serial Numbered")
	cmd.Flags().StringVar(&card.Condition, "condition", "", "Condition for raw cards")
	cmd.Flags().StringVar(&card.Grade, "grade", "", "Grade, for example PSA 9")
	cmd.Flags().StringVar(&card.CertNumber, "cert", "", "Grading certification number")
	cmd.Flags().StringVar(&card.Price, "asking", "", "Asking price")
	cmd.Flags().BoolVar(&card.IsRookie, "rookie", false, "Rookie card")
	cmd.Flags().BoolVar(&card.IsGraded, "graded", false, "Professionally graded card")
	cmd.Flags().StringVar(csvPath, "csv", "", "Write the listing to a CSV file instead of stdout")
}
