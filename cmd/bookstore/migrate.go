package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/pkg/config"
	pkgdb "github.com/Skotchmaster/bookstore/pkg/db"
	"github.com/Skotchmaster/bookstore/pkg/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
		logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pkgdb.Close(db)

		if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return err
		}
		logger.Info("migrations applied", "tables", len(models.All()))
		return nil
	},
}
