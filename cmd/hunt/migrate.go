package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/stagehunt/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the progress database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		version, dirty, err := database.Migrate(db)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"path":    cfg.Database.Path,
			"version": version,
			"dirty":   dirty,
		}).Info("migration successful")
		return nil
	},
}
