package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"manuals-go/internal/config"
	"manuals-go/internal/database"
	"manuals-go/internal/fs"
	"manuals-go/internal/manual"
	"manuals-go/internal/metrics"
	"manuals-go/internal/model"
	"manuals-go/internal/seed"
	"manuals-go/internal/vault"
)

// ManualsApp is the application layer between the CLI and the manual package.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw CLI arguments, and records mutating runs on Close.
type ManualsApp struct {
	cfg     *config.Config
	db      manual.Database // opened on first use
	vault   manual.Vault
	fsmgr   *fs.OSFilesystemManager
	metrics *metrics.Collector
	logger  *slog.Logger
	clock   manual.Clock
	op      *Operation
	logFile *os.File
}

// NewManualsApp creates a wired ManualsApp from the given config.
// operation identifies the CLI command being run (e.g. "import", "seed").
// The caller must call Close when done.
func NewManualsApp(cfg *config.Config, operation string) (*ManualsApp, error) {
	v, err := vault.NewVaultFromConfig(cfg.Vault)
	if err != nil {
		return nil, fmt.Errorf("creating vault: %w", err)
	}
	if err := v.ValidateSetup(); err != nil {
		return nil, fmt.Errorf("validating vault: %w", err)
	}

	clock := manual.RealClock{}
	op := NewOperation(manual.UUIDGenerator{}.New(), operation, clock.Now())

	logger, logFile, err := newLogger(cfg.LogDir, op.ID, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &ManualsApp{
		cfg:     cfg,
		vault:   v,
		fsmgr:   fs.NewOSFilesystemManager(),
		metrics: metrics.NewCollector(),
		logger:  logger,
		clock:   clock,
		op:      op,
		logFile: logFile,
	}, nil
}

// openDatabase opens the configured database once. Migrations are applied
// when auto_migrate is set.
func (a *ManualsApp) openDatabase() (manual.Database, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := database.NewDatabaseFromConfig(context.Background(), a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	a.db = db
	return db, nil
}

// database opens the database and checks its schema is current.
func (a *ManualsApp) database() (manual.Database, error) {
	db, err := a.openDatabase()
	if err != nil {
		return nil, err
	}
	if err := db.CheckMigrations(); err != nil {
		return nil, fmt.Errorf("database schema out of date (run 'manuals db migrate'): %w", err)
	}
	return db, nil
}

// persistOperation saves the operation as a run record.
// This should only be called for DB-mutating commands.
func (a *ManualsApp) persistOperation(db manual.Database, parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	err := db.CreateRun(&model.Run{
		ID:         a.op.ID,
		Operation:  a.op.Name,
		Parameters: parameters,
		StartedAt:  a.op.StartedAt,
		Status:     StatusRunning,
	})
	if err != nil {
		return fmt.Errorf("persisting run: %w", err)
	}
	a.op.persisted = true
	return nil
}

// track marks the operation failed when err is non-nil and returns err.
func (a *ManualsApp) track(err error) error {
	if err != nil {
		a.op.Fail()
		a.logger.Error(a.op.Name+" failed", "error", err)
	}
	return err
}

// MapDirectory snapshots inputDir and stores it in the vault under outputKey.
// Empty arguments fall back to the configured input directory and schema path.
// Relative paths in the snapshot are taken from the working directory.
func (a *ManualsApp) MapDirectory(inputDir, outputKey string) (*manual.Schema, string, error) {
	if inputDir == "" {
		inputDir = a.cfg.Manuals.InputDir
	}
	if outputKey == "" {
		outputKey = a.cfg.Manuals.SchemaPath
	}

	// The ignore file lives inside inputDir, so validate it first.
	if root, err := a.fsmgr.Resolve(inputDir); err != nil || !root.IsDir() {
		return nil, "", a.track(fmt.Errorf("%w: %s", manual.ErrNotADirectory, inputDir))
	}

	ignore, err := fs.LoadIgnoreMatcher(inputDir, a.cfg.Manuals.Ignore)
	if err != nil {
		return nil, "", a.track(err)
	}

	mapper := manual.NewMapper(a.fsmgr, ignore, &slogAdapter{l: a.logger})
	schema, err := mapper.Map(inputDir, ".")
	if err != nil {
		return nil, "", a.track(err)
	}

	if err := manual.WriteSchema(a.vault, outputKey, schema); err != nil {
		return nil, "", a.track(err)
	}
	a.logger.Info("schema written", "key", outputKey)
	return schema, outputKey, nil
}

// ImportManuals reconciles the snapshot stored under inputKey into the database.
// baseURL falls back to MANUALES_BASE_URL, then the configured base URL.
func (a *ManualsApp) ImportManuals(inputKey, baseURL string) (*manual.ImportSummary, error) {
	if inputKey == "" {
		inputKey = a.cfg.Manuals.SchemaPath
	}
	baseURL = resolveBaseURL(baseURL, a.cfg.Manuals.BaseURL)

	db, err := a.database()
	if err != nil {
		return nil, err
	}

	params := fmt.Sprintf("input=%s base_url=%s", inputKey, baseURL)
	if err := a.persistOperation(db, params); err != nil {
		return nil, err
	}

	schema, err := manual.ReadSchema(a.vault, inputKey)
	if err != nil {
		return nil, a.track(err)
	}

	importer := manual.NewImporter(db, &slogAdapter{l: a.logger}, a.clock, a.metrics)
	summary, err := importer.Import(schema, baseURL)
	return summary, a.track(err)
}

// Seed installs the ADMIN role and its permissions. It returns the seed result
// and the number of permissions the role now holds.
func (a *ManualsApp) Seed() (*seed.Result, int, error) {
	db, err := a.database()
	if err != nil {
		return nil, 0, err
	}
	if err := a.persistOperation(db, ""); err != nil {
		return nil, 0, err
	}

	res, err := seed.Run(db, a.clock.Now())
	if err != nil {
		return nil, 0, a.track(err)
	}
	granted, err := db.CountRolePermissions(res.Role.ID)
	if err != nil {
		return nil, 0, a.track(err)
	}
	a.logger.Info("access seeded", "role", res.Role.Name, "permissions", granted)
	return res, granted, nil
}

// ListGroups returns every non-deleted group.
func (a *ManualsApp) ListGroups() ([]*model.Group, error) {
	db, err := a.database()
	if err != nil {
		return nil, err
	}
	return db.ListGroups()
}

// ListLessons returns non-deleted lessons; groupCode below zero means all groups.
func (a *ManualsApp) ListLessons(groupCode int) ([]*model.Lesson, error) {
	db, err := a.database()
	if err != nil {
		return nil, err
	}
	return db.ListLessons(groupCode)
}

// DeleteLesson soft-deletes the lesson with the given code.
func (a *ManualsApp) DeleteLesson(code string) error {
	db, err := a.database()
	if err != nil {
		return err
	}
	if err := a.persistOperation(db, "code="+code); err != nil {
		return err
	}

	deleted, err := db.SoftDeleteLesson(code, a.clock.Now())
	if err != nil {
		return a.track(err)
	}
	if !deleted {
		return a.track(fmt.Errorf("lesson %s not found", code))
	}
	a.logger.Info("lesson deleted", "code", code)
	return nil
}

// GetHistory returns the most recent runs, newest first.
func (a *ManualsApp) GetHistory(limit int) ([]*model.Run, error) {
	db, err := a.database()
	if err != nil {
		return nil, err
	}
	return db.ListRuns(limit)
}

// MigrateDatabase applies pending migrations.
func (a *ManualsApp) MigrateDatabase() error {
	db, err := a.openDatabase()
	if err != nil {
		return err
	}
	return db.Migrate()
}

// DatabaseStatus reports whether the schema is at the latest version.
func (a *ManualsApp) DatabaseStatus() error {
	db, err := a.openDatabase()
	if err != nil {
		return err
	}
	return db.CheckMigrations()
}

// backupTarget is implemented by databases that can copy themselves to a file.
type backupTarget interface {
	BackupTo(destPath string) error
}

// BackupDatabase copies the database to destPath. Only SQLite supports this.
func (a *ManualsApp) BackupDatabase(destPath string) error {
	db, err := a.database()
	if err != nil {
		return err
	}
	b, ok := db.(backupTarget)
	if !ok {
		return fmt.Errorf("database type %s does not support backup", a.cfg.Database.Type)
	}
	return b.BackupTo(destPath)
}

// Close finalizes the operation and closes all resources.
// For persisted operations it finishes the run record and, when a Pushgateway
// is configured, pushes the run's metrics.
func (a *ManualsApp) Close() error {
	var firstErr error
	now := a.clock.Now()

	if a.op.Persisted() {
		if err := a.db.FinishRun(a.op.ID, a.op.Status, now); err != nil {
			firstErr = fmt.Errorf("finishing run: %w", err)
		}

		a.metrics.ObserveOperation(a.op.Name, a.op.Status, now.Sub(a.op.StartedAt), now)
		if url := a.cfg.Metrics.PushgatewayURL; url != "" {
			// Best effort: the run record is already final.
			if err := a.metrics.Push(url, a.cfg.Metrics.Job); err != nil {
				a.logger.Warn("metrics push failed", "error", err)
			}
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
