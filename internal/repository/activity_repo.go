package repository

import (
	"time"

	"crypto-analyst-bot/internal/models"

	"gorm.io/gorm"
)

type ActivityRepository interface {
	AppendUserActivity(activity *models.UserActivity) error
	AppendAdminActivity(activity *models.AdminActivity) error
	ListUserActivities(userID uint, limit int) ([]models.UserActivity, error)
	ListAdminActivities(adminID uint, limit int) ([]models.AdminActivity, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) AppendUserActivity(activity *models.UserActivity) error {
	if activity.Timestamp == 0 {
		activity.Timestamp = time.Now().Unix()
	}

	if err := r.db.Create(activity).Error; err != nil {
		return translate(err)
	}

	return nil
}

func (r *activityRepository) AppendAdminActivity(activity *models.AdminActivity) error {
	if activity.Timestamp == 0 {
		activity.Timestamp = time.Now().Unix()
	}

	if err := r.db.Create(activity).Error; err != nil {
		return translate(err)
	}

	return nil
}

func (r *activityRepository) ListUserActivities(userID uint, limit int) ([]models.UserActivity, error) {
	var activities []models.UserActivity
	err := r.db.Where("user_id = ?", userID).
		Order("timestamp desc").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *activityRepository) ListAdminActivities(adminID uint, limit int) ([]models.AdminActivity, error) {
	var activities []models.AdminActivity
	err := r.db.Where("admin_id = ?", adminID).
		Order("timestamp desc").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}

	return activities, nil
}
