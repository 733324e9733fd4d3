package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/killallgit/autocut/internal/models"
	"github.com/killallgit/autocut/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// fileDSNParams apply to every pooled connection of a file database. The
// worker pool and the API write at the same time, so writers wait on the
// lock instead of failing with SQLITE_BUSY.
const fileDSNParams = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// DB wraps the gorm handle shared by the job and cut repositories.
type DB struct {
	*gorm.DB
}

// Initialize opens the sqlite database at dbPath, creating its directory.
// An empty path or MemoryPath opens a throwaway in-memory database. verbose
// logs every statement.
func Initialize(dbPath string, verbose bool) (*DB, error) {
	if dbPath == "" {
		dbPath = MemoryPath
	}

	dsn := dbPath
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		dsn += fileDSNParams
	}

	level := logger.Error
	if verbose {
		level = logger.Info
	}
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dbPath, err)
	}

	pool, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dbPath, err)
	}
	if dbPath == MemoryPath {
		// Each new connection to :memory: would see an empty database.
		pool.SetMaxOpenConns(1)
		pool.SetMaxIdleConns(1)
	} else {
		pool.SetMaxOpenConns(16)
		pool.SetMaxIdleConns(4)
		pool.SetConnMaxLifetime(time.Hour)
	}

	return &DB{DB: gdb}, nil
}

// InitializeFromConfig opens the configured database and brings its schema
// up to date.
func InitializeFromConfig(cfg config.DatabaseConfig) (*DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("database.path is not set")
	}
	db, err := Initialize(cfg.Path, cfg.Verbose)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return db, nil
}

// Close releases the connection pool.
func (db *DB) Close() error {
	pool, err := db.DB.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// HealthCheck pings the database with a one second deadline.
func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return errors.New("database not initialized")
	}
	pool, err := db.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// Migrate creates or alters the jobs and cut_records tables.
func (db *DB) Migrate() error {
	if err := db.DB.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// PendingMigrations names the tables Migrate would create.
func (db *DB) PendingMigrations() []string {
	var missing []string
	for _, m := range models.AllModels() {
		if db.Migrator().HasTable(m) {
			continue
		}
		stmt := &gorm.Statement{DB: db.DB}
		if stmt.Parse(m) == nil {
			missing = append(missing, stmt.Schema.Table)
		}
	}
	return missing
}
