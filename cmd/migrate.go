package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/app"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/db"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the content and version tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := os.Getenv("LOG_MODE")
		if mode == "" {
			mode = "development"
		}
		log, err := logger.New(mode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		cfg, err := app.LoadConfig(log)
		if err != nil {
			return err
		}
		theDB, err := app.OpenDB(log, cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := theDB.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := db.AutoMigrateAll(theDB); err != nil {
			return err
		}
		log.Info("Migration complete", "driver", cfg.DBDriver)
		return nil
	},
}
