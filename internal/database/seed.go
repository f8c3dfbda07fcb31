package database

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/exam_backend/internal/config"
	"github.com/zaqqye/exam_backend/internal/models"
	"github.com/zaqqye/exam_backend/internal/utils"
)

// SeedAdmin creates the bootstrap admin when ADMIN_EMAIL and ADMIN_PASSWORD
// are both set and no admin exists yet. An existing admin is never modified;
// a warning is logged when its stored password no longer matches
// ADMIN_PASSWORD.
func SeedAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return checkSeededAdmin(ctx, db, cfg, log)
	}

	hashed, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        cfg.AdminEmail,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}
	log.Info("seeded initial admin", zap.String("email", cfg.AdminEmail))
	return nil
}

func checkSeededAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	var admin models.User
	err := db.WithContext(ctx).Where("email = ? AND role = ?", cfg.AdminEmail, models.RoleAdmin).Take(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !utils.PasswordMatches(admin.PasswordHash, cfg.AdminPassword) {
		log.Warn("ADMIN_PASSWORD does not match the stored admin password; leaving it unchanged",
			zap.String("email", cfg.AdminEmail))
	}
	return nil
}
