package postgres

import (
	"context"
	"fmt"
	"time"

	"orderengine/internal/adapters/out/postgres/menurepo"
	"orderengine/internal/adapters/out/postgres/orderrepo"
	"orderengine/internal/adapters/out/postgres/outboxrepo"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects with the settings the repositories depend on: driver errors
// are translated so duplicate keys surface as gorm.ErrDuplicatedKey.
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates every table of the engine.
func Migrate(db *gorm.DB) error {
	models := orderrepo.Models()
	models = append(models, &outboxrepo.NotificationDTO{}, &menurepo.MenuItemDTO{})
	return db.AutoMigrate(models...)
}
