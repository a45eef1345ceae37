package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/vytor/flashdeck/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const driverName = "sqlite3"

// pragmas every connection is opened with. _txlock=immediate takes the write
// lock at BEGIN so concurrent card mutations serialize on the deck counters.
const pragmas = "_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL&_txlock=immediate"

type DB struct {
	*sqlx.DB
	log *logger.Logger
}

// DSN appends the connection pragmas to path.
func DSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + pragmas
}

// Open connects to the database at path and applies pending migrations.
func Open(ctx context.Context, path string) (*DB, error) {
	log := logger.Default().WithPrefix("db")
	log.Info("opening database: %s", path)

	sqlxDB, err := sqlx.Open(driverName, DSN(path))
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	sqlxDB.SetMaxOpenConns(1) // SQLite best practice for single writer

	db := &DB{DB: sqlxDB, log: log}
	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to reach database: %v", err)
		_ = sqlxDB.Close()
		return nil, err
	}

	log.Debug("applying migrations")
	if err := Migrate(ctx, sqlxDB); err != nil {
		log.Error("failed to apply migrations: %v", err)
		_ = sqlxDB.Close()
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

// Ping checks connectivity; used by the readiness probe.
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Migrate applies every embedded migration that is not yet recorded in
// schema_migrations, in file name order.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	log := logger.FromContext(ctx).WithPrefix("db")

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return err
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		version := entry.Name()
		applied, err := isMigrationApplied(ctx, db, version)
		if err != nil {
			return err
		}
		if applied {
			log.Debug("migration %s already applied, skipping", version)
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile("migrations/" + version)
		if err != nil {
			return err
		}
		log.Info("applying migration: %s", version)
		if err := applyMigration(ctx, db, version, string(sqlBytes)); err != nil {
			log.Error("migration %s failed: %v", version, err)
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		log.Info("migration %s applied successfully", version)
	}
	return nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, version, stmts string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, stmts); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func isMigrationApplied(ctx context.Context, db *sqlx.DB, version string) (bool, error) {
	var v string
	err := db.GetContext(ctx, &v, `SELECT version FROM schema_migrations WHERE version = ?`, version)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
