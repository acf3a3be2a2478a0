package database

import (
	"fmt"

	"github.com/techmaster-vietnam/goerrorkit"
	"github.com/techmaster-vietnam/roleapi/config"
	"github.com/techmaster-vietnam/roleapi/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds the postgres connection string from config
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)
}

// Open connects to postgres using GORM
// TranslateError bật để unique constraint được báo bằng gorm.ErrDuplicatedKey
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	return OpenDSN(DSN(cfg))
}

// OpenDSN connects to postgres using a raw DSN
func OpenDSN(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, goerrorkit.NewSystemError(err)
	}
	return db, nil
}

// Migrate runs database migrations for the role API models
// Tạo bảng users, roles và bảng nối user_roles (khóa chính user_id, role_id)
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Role{}); err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to migrate database")
	}
	return nil
}
