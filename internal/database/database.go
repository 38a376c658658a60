package database

import (
	"errors"
	"fmt"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/config"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/models"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/logger"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, Options())
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Options is shared by Connect and the test harnesses so both translate
// driver errors (unique violations become gorm.ErrDuplicatedKey).
func Options() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.File{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	// Catalogue pages are ordered newest first with id as the tie-breaker.
	return db.Exec("CREATE INDEX IF NOT EXISTS idx_files_created_at_id ON files (created_at DESC, id DESC)").Error
}

// SeedAdmin creates the first admin account when the users table is empty.
func SeedAdmin(db *gorm.DB, cfg config.SeedConfig) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return errors.New("seed admin email and password are required on an empty database")
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        models.NormalizeEmail(cfg.AdminEmail),
		PasswordHash: hash,
		FirstName:    "System",
		LastName:     "Admin",
		Role:         models.UserRoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	details := map[string]interface{}{"email": admin.Email}
	if cfg.AdminPassword == config.DefaultAdminPassword {
		logger.Warn("seed_admin_default_password", details)
	} else {
		logger.Info("seed_admin_created", details)
	}
	return nil
}
