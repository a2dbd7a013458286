// Command uptime runs the uptime monitor.
//
//	uptime serve                                   # API, scheduler, prober and recorder
//	uptime migrate                                 # apply the database schema
//	uptime seed --file sites.yaml --owner a@b.com  # import sites and schedules
package main

import (
	"os"

	"uptime-monitor/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "uptime",
	Short:         "Scheduled HTTP uptime monitoring",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "env.yaml", "path to the config file")
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(configPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
