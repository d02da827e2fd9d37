package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cardscout/cardscout-go/cmd/listing"
	"github.com/cardscout/cardscout-go/cmd/load"
	"github.com/cardscout/cardscout-go/cmd/scrape"
	"github.com/cardscout/cardscout-go/cmd/seed"
	"github.com/cardscout/cardscout-go/cmd/serve"
	"github.com/cardscout/cardscout-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cardscout",
		Short: "CardScout CLI",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
	}

	listingCmd := listing.Command(settings)

	subcommands := []*cobra.Command{
		seed.Command(settings),
		load.Command(settings),
		scrape.Command(settings),
		serve.Command(settings),
		listingCmd,
	}

	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cmd.Flags().Parse(args); err != nil {
			return err
		}

		// The listing builder works offline, database settings need not
		// be valid for it.
		if cmd.Name() == listingCmd.Name() {
			return nil
		}
		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Output.SQLite.Path, "db", viper.GetString("output.sqlite.path"), "Path to the SQLite database file")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
