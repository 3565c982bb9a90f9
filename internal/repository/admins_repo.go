package repository

import (
	"errors"
	"time"

	"crypto-analyst-bot/internal/models"
	"crypto-analyst-bot/lib/errs"

	"gorm.io/gorm"
)

type AdminsRepository interface {
	CreateAdmin(admin *models.Admin) error
	GetAdminByUserID(userID string) (*models.Admin, error)
	UpdateAdminRole(userID string, role models.AdminRole) (*models.Admin, error)
	SetAdminActive(userID string, active bool) (*models.Admin, error)
	CountAdmins() (int64, error)
}

type adminsRepository struct {
	db *gorm.DB
}

func NewAdminsRepository(db *gorm.DB) AdminsRepository {
	return &adminsRepository{db: db}
}

func (r *adminsRepository) CreateAdmin(admin *models.Admin) error {
	// The referenced user must exist regardless of whether the driver
	// enforces the constraint (sqlite does not unless the pragma is on).
	var count int64
	if err := r.db.Model(&models.User{}).Where("telegram_id = ?", admin.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.ErrForeignKey
	}

	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now()
	}

	if err := r.db.Omit("User").Create(admin).Error; err != nil {
		return translate(err)
	}

	return nil
}

func (r *adminsRepository) GetAdminByUserID(userID string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.Where("user_id = ?", userID).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}

		return nil, err
	}
	return &admin, nil
}

func (r *adminsRepository) UpdateAdminRole(userID string, role models.AdminRole) (*models.Admin, error) {
	admin, err := r.GetAdminByUserID(userID)
	if err != nil {
		return nil, err
	}

	admin.Role = role
	if err := r.db.Omit("User").Save(admin).Error; err != nil {
		return nil, translate(err)
	}

	return admin, nil
}

func (r *adminsRepository) SetAdminActive(userID string, active bool) (*models.Admin, error) {
	admin, err := r.GetAdminByUserID(userID)
	if err != nil {
		return nil, err
	}

	admin.IsActive = active
	if err := r.db.Omit("User").Save(admin).Error; err != nil {
		return nil, translate(err)
	}

	return admin, nil
}

func (r *adminsRepository) CountAdmins() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
