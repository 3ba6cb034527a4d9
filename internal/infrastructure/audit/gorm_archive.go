package audit

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/railtix/railtix/internal/config"
	"github.com/railtix/railtix/internal/domain/models"
	"github.com/railtix/railtix/pkg/errors"
	"github.com/railtix/railtix/pkg/logger"
)

// GormArchive persists booking events to a relational database through gorm.
// SQLite serves single-node setups; Postgres is available for shared archives.
type GormArchive struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormArchive opens the configured database, migrates the events table,
// and returns the archive.
func NewGormArchive(cfg *config.ArchiveConfig, log logger.Logger) (*GormArchive, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, errors.ErrInternal("unsupported archive driver: " + cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open archive database")
	}

	if err := db.AutoMigrate(&models.BookingEvent{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate booking_events table")
	}

	return &GormArchive{
		db:     db,
		logger: log.WithComponent("archive"),
	}, nil
}

// Emit stores one booking event.
func (a *GormArchive) Emit(ctx context.Context, event models.BookingEvent) error {
	if err := a.db.WithContext(ctx).Create(&event).Error; err != nil {
		return errors.Wrap(err, "failed to archive booking event")
	}
	return nil
}

// RecentByUser returns the user's most recent events, newest first. Operators
// use this when reviewing suspicious-activity flags.
func (a *GormArchive) RecentByUser(ctx context.Context, userID string, limit int) ([]models.BookingEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	var events []models.BookingEvent
	err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to query booking events")
	}
	return events, nil
}

// Close closes the underlying database connection.
func (a *GormArchive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
