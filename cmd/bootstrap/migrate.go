package bootstrap

import (
	"context"
	"log/slog"

	"mentor-booking/internal/infra/migrate"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var MigrateModule = fx.Module("migrate",
	fx.Invoke(RunMigrations),
)

// RunMigrations applies pending migrations before any component touches the schema.
func RunMigrations(lc fx.Lifecycle, pool *pgxpool.Pool, cfg config.Config, logger *slog.Logger) error {
	if !cfg.DB.AutoMigrate {
		logger.Info("auto migration disabled")
		return nil
	}

	m, err := migrate.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			logger.Warn("failed to close migrator", "error", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.QueryTimeout*6)
	defer cancel()
	return m.Up(ctx)
}
