package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-modular/app"
	kernel "github.com/km-arc/go-modular/framework/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Activate the configured modules and serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := kernel.New(kernel.Options{
			Config:    configOptions(),
			LogWriter: cmd.ErrOrStderr(),
			Marker:    app.Marker(),
			Manifest:  app.Manifest(),
			Routes:    app.Routes,
		})
		if err != nil {
			return err
		}
		if err := application.Boot(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return application.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

