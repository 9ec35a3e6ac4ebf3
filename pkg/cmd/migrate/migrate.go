package migrate

import (
	"errors"
	"time"

	gomigrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/velologic/cycling-season-manager-go/log"
	"github.com/velologic/cycling-season-manager-go/pkg/config"
	"github.com/velologic/cycling-season-manager-go/pkg/db/migrate"
	"github.com/velologic/cycling-season-manager-go/pkg/utils"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration()
		},
	}

	cmd.Flags().StringVarP(&config.MigrationSourceURL,
		"migrationSourceUrl",
		"m",
		"",
		"url to migration files (default: migrations embedded in the binary)")

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

	if config.MigrationSourceURL == "" {
		log.Info("Using embedded migrations")
		err = migrate.MigrateDB(config.DB)
	} else {
		log.Info("Using migration files at",
			log.String("source", config.MigrationSourceURL))
		var m *gomigrate.Migrate
		m, err = gomigrate.New(config.MigrationSourceURL, migrate.PrepareURL(config.DB))
		if err != nil {
			log.Fatal("Could not create migration", log.ErrorField(err))
		}
		err = m.Up()
	}
	if errors.Is(err, gomigrate.ErrNoChange) {
		log.Info("No migration required")
		return nil
	}
	return err
}
