package repository

import (
	"errors"
	"time"

	"crypto-analyst-bot/internal/models"
	"crypto-analyst-bot/lib/errs"

	"gorm.io/gorm"
)

type UsersRepository interface {
	CreateUser(user *models.User) error
	GetUserByTelegramID(telegramID string) (*models.User, error)
	UpdateUser(user *models.User) error
	TouchLastActive(telegramID string, at time.Time) error
	CountUsers() (int64, error)
}

type usersRepository struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) UsersRepository {
	return &usersRepository{db: db}
}

func (r *usersRepository) CreateUser(user *models.User) error {
	if user.UserType == "" {
		user.UserType = models.UserTypeGuest
	}
	if user.Language == "" {
		user.Language = models.DefaultLanguage
	}
	if user.PreferredChartType == "" {
		user.PreferredChartType = models.DefaultChartType
	}
	if user.PreferredTimeframe == 0 {
		user.PreferredTimeframe = models.DefaultTimeframe
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.LastActive.IsZero() {
		user.LastActive = now
	}

	if err := r.db.Create(user).Error; err != nil {
		return translate(err)
	}

	return nil
}

func (r *usersRepository) GetUserByTelegramID(telegramID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}

		return nil, err
	}
	return &user, nil
}

func (r *usersRepository) UpdateUser(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *usersRepository) TouchLastActive(telegramID string, at time.Time) error {
	result := r.db.Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Update("last_active", at)

	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (r *usersRepository) CountUsers() (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
