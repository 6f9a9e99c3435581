package main

import (
	"github.com/spf13/cobra"

	"github.com/vancomm/stagehunt/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info("starting up, mode = ", cfg.Mode)
		log.WithFields(cfg.Fields()).Debug("config")

		a := app.New(log, cfg)
		defer a.Close()
		if err := a.Start(cmd.Context()); err != nil {
			return err
		}
		log.Info("server stopped")
		return nil
	},
}
