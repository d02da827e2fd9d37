package datastore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cardscout/cardscout-go/internal/conf"
	"github.com/cardscout/cardscout-go/internal/errors"
)

// SQLiteStore implements the datastore Interface using SQLite.
type SQLiteStore struct {
	Settings *conf.Settings
	DataStore
}

func validateSQLiteConfig(settings *conf.Settings) error {
	path := settings.Output.SQLite.Path
	if path == "" {
		return errors.Newf("SQLite database path is empty").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return nil
}

// Open initializes the SQLite database connection and performs migrations.
func (store *SQLiteStore) Open() error {
	if err := validateSQLiteConfig(store.Settings); err != nil {
		return err
	}

	dbPath := store.Settings.Output.SQLite.Path
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(fmt.Errorf("failed to create database directory: %w", err)).
				Category(errors.CategoryFileIO).
				Context("db_path", dbPath).
				Build()
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return errors.New(fmt.Errorf("failed to open SQLite database: %w", err)).
			Category(errors.CategoryDatabase).
			Context("db_path", dbPath).
			Build()
	}

	// Keep a single writer, SQLite locks the whole file on writes.
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	store.DB = db
	logger.Info("opened SQLite database", "path", dbPath)

	return performAutoMigration(db, store.Settings.Debug, "SQLite", dbPath)
}

// Close closes the SQLite database connection.
func (store *SQLiteStore) Close() error {
	if store.DB == nil {
		return nil
	}
	sqlDB, err := store.DB.DB()
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Context("operation", "close_sqlite").
			Build()
	}
	return sqlDB.Close()
}
