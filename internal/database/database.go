package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Path         string
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

func DefaultConfig() *Config {
	return &Config{
		Path: "data/todo.db",
		// SQLite allows a single writer; one connection keeps GORM
		// from tripping over SQLITE_BUSY under concurrent requests.
		MaxOpenConns: 1,
		LogLevel:     logger.Warn,
	}
}

// Open connects to the SQLite file at config.Path, creating the parent
// directory if it does not exist.
func Open(config *Config) (*gorm.DB, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if err := ensureParentDir(config.Path); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(config.Path), &gorm.Config{
		Logger: logger.Default.LogMode(config.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}

	return db, nil
}

// Init creates the tasks table if it does not exist. Safe to run on
// every startup.
func Init(db *gorm.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`
	if err := db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func ensureParentDir(path string) error {
	parent := filepath.Dir(path)
	if parent == "" || parent == "." {
		return nil
	}
	return os.MkdirAll(parent, 0o755)
}
