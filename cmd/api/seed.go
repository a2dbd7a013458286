package main

import (
	"fmt"
	"os"

	"uptime-monitor/internals/app"
	"uptime-monitor/internals/seed"
	"uptime-monitor/pkg/db"
	"uptime-monitor/pkg/logger"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import sites and schedules from a YAML file",
	Long: `Import sites and schedules from a YAML file on behalf of an existing user.

Sites are matched by url and method, schedules by name, so the same file
can be applied repeatedly. Triggers are recorded and picked up by the next
"uptime serve".

Example file:
  sites:
    - url: https://example.com
      expected_text: Example Domain
      schedules:
        - name: example-every-minute
          cron: "* * * * *"
        - name: example-every-30s
          interval: {every: 30, unit: seconds}`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringP("file", "f", "", "seed file (required)")
	seedCmd.Flags().String("owner", "", "email of the owning user (required)")
	_ = seedCmd.MarkFlagRequired("file")
	_ = seedCmd.MarkFlagRequired("owner")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")
	owner, _ := cmd.Flags().GetString("owner")

	fh, err := os.Open(file)
	if err != nil {
		return err
	}
	defer fh.Close()

	f, err := seed.Parse(fh)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.Init(cfg)
	ctx := cmd.Context()

	pool, err := db.ConnectToDB(ctx, &cfg.DB, log)
	if err != nil {
		return err
	}

	container, err := app.NewContainer(ctx, pool, cfg, log, false)
	if err != nil {
		pool.Close()
		return err
	}
	defer container.Shutdown(ctx)

	sum, err := seed.NewImporter(container.UserSvc, container.SiteSvc, container.ScheduleSvc, log).Import(ctx, owner, f)
	if err != nil {
		return err
	}

	log.Info().
		Int("sites_created", sum.SitesCreated).
		Int("sites_reused", sum.SitesReused).
		Int("schedules", sum.Schedules).
		Msg("seed applied")
	return nil
}
