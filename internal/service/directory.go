package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"crypto-analyst-bot/internal/models"
	"crypto-analyst-bot/internal/repository"
	"crypto-analyst-bot/lib/errs"

	"gorm.io/gorm"
)

// Directory maps an external chat identity to a durable user record,
// materializing it on first contact.
type Directory interface {
	ResolveOrCreate(ctx context.Context, identity, username string) (*models.User, error)
	IsBanned(user *models.User) bool
	SetLanguage(ctx context.Context, identity, language string) error
	SetChartPreferences(ctx context.Context, identity, chartType string, timeframe int) error
	RecordActivity(ctx context.Context, user *models.User, coinID, activityType, details string) error
}

type directory struct {
	usersRepo repository.UsersRepository
	db        *gorm.DB
	log       *slog.Logger
}

func NewDirectory(usersRepo repository.UsersRepository, db *gorm.DB, log *slog.Logger) Directory {
	return &directory{
		usersRepo: usersRepo,
		db:        db,
		log:       log,
	}
}

func (s *directory) ResolveOrCreate(ctx context.Context, identity, username string) (*models.User, error) {
	user, err := s.usersRepo.GetUserByTelegramID(identity)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	newUser := &models.User{
		TelegramID: identity,
		Username:   username,
	}

	if err := s.usersRepo.CreateUser(newUser); err != nil {
		// Two first contacts can race; the loser re-fetches the row the
		// winner inserted.
		if !errors.Is(err, errs.ErrAlreadyExists) {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		s.log.Debug("create raced with concurrent first contact", "identity", identity)
	}

	user, err = s.usersRepo.GetUserByTelegramID(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to re-fetch user after create: %w", err)
	}

	return user, nil
}

func (s *directory) IsBanned(user *models.User) bool {
	return user != nil && user.UserType == models.UserTypeBanned
}

func (s *directory) SetLanguage(ctx context.Context, identity, language string) error {
	user, err := s.usersRepo.GetUserByTelegramID(identity)
	if err != nil {
		return err
	}

	user.Language = language
	return s.usersRepo.UpdateUser(user)
}

func (s *directory) SetChartPreferences(ctx context.Context, identity, chartType string, timeframe int) error {
	user, err := s.usersRepo.GetUserByTelegramID(identity)
	if err != nil {
		return err
	}

	if chartType != "" {
		user.PreferredChartType = chartType
	}
	if timeframe > 0 {
		user.PreferredTimeframe = timeframe
	}
	return s.usersRepo.UpdateUser(user)
}

// RecordActivity appends a usage log row and touches last_active in one
// transaction so the two never diverge.
func (s *directory) RecordActivity(ctx context.Context, user *models.User, coinID, activityType, details string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUsers := repository.NewUsersRepository(tx)
		txActivity := repository.NewActivityRepository(tx)

		if err := txUsers.TouchLastActive(user.TelegramID, time.Now()); err != nil {
			return err
		}

		return txActivity.AppendUserActivity(&models.UserActivity{
			UserID:       user.ID,
			CoinID:       coinID,
			ActivityType: activityType,
			Details:      details,
		})
	})

	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	return nil
}
