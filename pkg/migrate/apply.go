package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/angelmondragon/storefront-client/pkg/db"
	"github.com/angelmondragon/storefront-client/pkg/db/models"
	"github.com/angelmondragon/storefront-client/pkg/logger"
)

// Apply brings the sandbox schema up to date when auto-migration is on.
// sqlite databases are migrated from the models, postgres through goose.
func Apply(ctx context.Context, cfg config.SandboxConfig, logg *logger.Logger, client *db.Client) error {
	if !cfg.AutoMigrate {
		return nil
	}
	ctx = logg.WithField(ctx, "db_driver", cfg.DB.Driver)

	if cfg.DB.IsSQLite() {
		if err := client.Migrate(ctx, models.All()...); err != nil {
			return fmt.Errorf("auto-migrating sqlite schema: %w", err)
		}
		logg.Info(ctx, "sqlite schema migrated")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	dir := cfg.MigrationsDir
	if dir == "" {
		dir = DefaultDir
	}
	ctx = logg.WithField(ctx, "dir", dir)
	logg.Info(ctx, "running goose migrations")
	if err := Run(ctx, sqlDB, dir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "goose migrations completed")
	return nil
}
