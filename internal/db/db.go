package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is one persisted key-value record
type Entry struct {
	Name      string    `gorm:"primaryKey"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time
}

// SQLiteBackend stores entries in a SQLite database file
type SQLiteBackend struct {
	db *gorm.DB
}

// OpenSQLite sets up the database connection and runs migrations
func OpenSQLite(path string) (*SQLiteBackend, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	b := &SQLiteBackend{db: db}
	if err := b.runMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return b, nil
}

// runMigrations creates/updates the database schema
func (b *SQLiteBackend) runMigrations() error {
	return b.db.AutoMigrate(&Entry{})
}

// Get returns the raw value stored under key
func (b *SQLiteBackend) Get(key string) ([]byte, bool, error) {
	var entry Entry
	err := b.db.Where("name = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

// Set writes value under key, replacing any previous value
func (b *SQLiteBackend) Set(key string, value []byte) error {
	entry := Entry{
		Name:      key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}

	return b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Keys lists every stored key
func (b *SQLiteBackend) Keys() ([]string, error) {
	var names []string
	if err := b.db.Model(&Entry{}).Order("name ASC").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// Close closes the database connection
func (b *SQLiteBackend) Close() error {
	if b.db != nil {
		sqlDB, err := b.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
