package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cardscout/cardscout-go/internal/conf"
	"github.com/cardscout/cardscout-go/internal/datastore"
	"github.com/cardscout/cardscout-go/internal/httpcontroller"
	"github.com/cardscout/cardscout-go/internal/observability"
)

const shutdownTimeout = 10 * time.Second

// Command creates the serve command, which runs the web dashboard.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		Long:  "Serve the collection dashboard, grade candidate and price guide pages over HTTP until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := datastore.New(settings)
			if err := store.Open(); err != nil {
				return err
			}
			defer store.Close()

			m, err := observability.NewMetrics()
			if err != nil {
				fmt.Printf("metrics disabled: %v\n", err)
				m = nil
			}
			server := httpcontroller.New(settings, store, m)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-quit:
				fmt.Printf("Received %s, shutting down\n", sig)
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}

	setupFlags(cmd, settings)
	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVarP(&settings.WebServer.Port, "port", "p", viper.GetString("webserver.port"), "Port to listen on")
	cmd.Flags().BoolVar(&settings.WebServer.Log.Enabled, "weblog", viper.GetBool("webserver.log.enabled"), "Write web requests to a log file")
	cmd.Flags().StringVar(&settings.WebServer.Log.Path, "weblogpath", viper.GetString("webserver.log.path"), "Path of the web request log")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}
