package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zaqqye/exam_backend/internal/config"
	"github.com/zaqqye/exam_backend/internal/models"
)

// Connect opens the pool without pinging; WaitForDB gates readiness.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		DisableAutomaticPing: true,
		TranslateError:       true,
		Logger:               gormlogger.Default.LogMode(gormLogLevel(cfg)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}
	if err := ConfigurePool(db, cfg.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func ConfigurePool(db *gorm.DB, cfg config.DBConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return nil
}

func gormLogLevel(cfg *config.Config) gormlogger.LogLevel {
	if cfg.IsProduction() {
		return gormlogger.Warn
	}
	return gormlogger.Info
}

// WaitForDB probes the store with SELECT 1 every interval until it answers
// or timeout elapses.
func WaitForDB(ctx context.Context, db *gorm.DB, timeout, interval time.Duration, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		err := db.WithContext(ctx).Exec("SELECT 1").Error
		if err == nil {
			log.Info("database ready", zap.Int("attempt", attempt))
			return nil
		}
		log.Warn("database not ready, retrying", zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("database not ready after %s: %w", timeout, err)
		case <-ticker.C:
		}
	}
}

// Migrate creates or updates every table with its indexes and foreign keys.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
