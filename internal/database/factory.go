package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"manuals-go/internal/config"
	"manuals-go/internal/manual"
)

// DatabaseFileName is the SQLite file created inside DatabaseConfig.DataDir.
const DatabaseFileName = "manuals.db"

// NewDatabaseFromConfig creates a Database implementation based on the database config type.
// With AutoMigrate set, pending migrations are applied before returning.
func NewDatabaseFromConfig(ctx context.Context, cfg config.DatabaseConfig) (manual.Database, error) {
	var db manual.Database
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		sqliteDB, err := NewSQLiteDatabase(filepath.Join(cfg.DataDir, DatabaseFileName))
		if err != nil {
			return nil, err
		}
		db = sqliteDB
	case "memory":
		sqliteDB, err := NewSQLiteDatabase(":memory:")
		if err != nil {
			return nil, err
		}
		if err := sqliteDB.Migrate(); err != nil {
			sqliteDB.Close()
			return nil, fmt.Errorf("migrating in-memory database: %w", err)
		}
		return sqliteDB, nil
	case "postgres":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = os.Getenv("DATABASE_URL")
		}
		if dsn == "" {
			return nil, fmt.Errorf("dsn or DATABASE_URL required for postgres database")
		}
		pgDB, err := NewPostgresDatabase(ctx, dsn)
		if err != nil {
			return nil, err
		}
		db = pgDB
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying migrations: %w", err)
		}
	}
	return db, nil
}
