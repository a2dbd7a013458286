package main

import (
	"fmt"

	"uptime-monitor/pkg/db"
	"uptime-monitor/pkg/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log := logger.Init(cfg)

		pool, err := db.ConnectToDB(cmd.Context(), &cfg.DB, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		return db.Migrate(cmd.Context(), pool, log)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
