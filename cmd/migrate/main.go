package main

// Run database migrations for the configured SQL backend:
//   STORE_BACKEND=postgres go run ./cmd/migrate
//   STORE_BACKEND=sqlite SQLITE_PATH=./data/app.db go run ./cmd/migrate

import (
	"context"
	"database/sql"
	"os"

	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/storage/db"
	"resume-matcher/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var (
		sqlDB   *sql.DB
		dialect string
		err     error
	)
	switch cfg.StoreBackend {
	case config.StorePostgres:
		dialect = db.DialectPostgres
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	case config.StoreSQLite:
		dialect = db.DialectSQLite
		sqlDB, err = db.ConnectSQLite(ctx, cfg.SQLitePath)
	default:
		telemetry.Error("migrate.unsupported_backend", map[string]any{"store": cfg.StoreBackend})
		os.Exit(1)
	}
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"store": cfg.StoreBackend})
}
