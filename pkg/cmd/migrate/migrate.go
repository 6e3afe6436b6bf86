package migrate

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-trackmap-go/log"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/config"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/db/migrate"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/utils"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration()
		},
	}
	return cmd
}

func startMigration() error {
	// wait for database
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if err = utils.WaitForTCP(postgresAddr, timeout); err != nil {
		log.Fatal("database not ready", log.ErrorField(err))
	}

	log.Info("Performing database migrations")
	if err := migrate.MigrateDb(config.DB); err != nil {
		log.Error("Could not perform migrations", log.ErrorField(err))
		return err
	}
	log.Info("Database migrations done")
	return nil
}
