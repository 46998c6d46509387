package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/models"
	chatmodels "skillswap_backend/internal/models/chat"
)

// Connect opens the store named by dsn. "sqlite:" / "file:" DSNs and ":memory:" use sqlite, everything else postgres.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}
	if debug {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		dialector = sqlite.Open(strings.TrimPrefix(dsn, "sqlite:"))
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		dialector = sqlite.Open(dsn)
	default:
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}
	if dialector.Name() == "sqlite" {
		// a single connection serialises writers, sqlite has no row locks to offer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}
	return db, nil
}

// AutoMigrate creates or updates every table the service uses.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Skill{},
		&models.User{},
		&models.Notification{},
		&models.SkillVideo{},
		&models.VideoRating{},
		&models.SkillTestResult{},
		// chat
		&chatmodels.Dialog{},
		&chatmodels.Message{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("AutoMigrate completed")
	return nil
}

// SeedSkills inserts catalog names that are not present yet.
func SeedSkills(db *gorm.DB, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		skill := models.Skill{Name: name}
		if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&skill).Error; err != nil {
			return fmt.Errorf("seed skill %q: %w", name, err)
		}
	}
	return nil
}
