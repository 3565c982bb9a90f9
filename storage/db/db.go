package db

import (
	"fmt"
	"log/slog"
	"time"

	"crypto-analyst-bot/internal/config"
	"crypto-analyst-bot/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Storage struct {
	DB *gorm.DB
}

func New(cfg config.DBConfig) (*Storage, error) {
	const op = "storage/db"

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var db *gorm.DB

	for i := 0; i < 5; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			break
		}
		slog.Warn("failed to connect to database, retrying...", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after multiple retries: %w", op, err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("%s: failed to auto-migrate database: %w", op, err)
	}
	slog.Info("database ready", "driver", cfg.Driver)

	return &Storage{DB: db}, nil
}

func dialectorFor(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return sqlite.Open(cfg.Path + "?_foreign_keys=on"), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
			cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

func (s *Storage) Ping() error {
	sqlDb, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDb.Ping()
}

func (s *Storage) Stop() error {
	sqlDb, err := s.DB.DB()
	if err != nil {
		return err
	}

	return sqlDb.Close()
}
