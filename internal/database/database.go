package database

import (
	"context"
	"fmt"
	"strings"

	"shopdash/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultHistoryLimit = 50

type Database struct {
	DB *gorm.DB
}

// New opens the notification log. URLs starting with sqlite:// use SQLite,
// anything else is handed to the Postgres driver.
func New(databaseURL string, verbose bool) (*Database, error) {
	var db *gorm.DB
	var err error

	level := logger.Warn
	if verbose {
		level = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(level),
	}

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), gormConfig)
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), gormConfig)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if strings.Contains(databaseURL, ":memory:") {
		// Every pooled connection would otherwise get its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.NotificationRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate notification_records: %w", err)
	}

	return &Database{DB: db}, nil
}

// RecordNotification appends one emitted notification to the history.
// Records already stored under the same ID are left untouched.
func (d *Database) RecordNotification(ctx context.Context, record *models.NotificationRecord) error {
	var existing int64
	if record.ID != "" {
		if err := d.DB.WithContext(ctx).Model(&models.NotificationRecord{}).
			Where("id = ?", record.ID).Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to look up notification: %w", err)
		}
	}
	if existing > 0 {
		return nil
	}
	if err := d.DB.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

// ListNotifications returns the most recent history, newest first.
func (d *Database) ListNotifications(ctx context.Context, limit int) ([]models.NotificationRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var records []models.NotificationRecord
	err := d.DB.WithContext(ctx).
		Order("emitted_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return records, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
