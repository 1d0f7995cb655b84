package db

import (
	"github.com/terraincognita07/sprintdesk/internal/models"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	database *gorm.DB
}

func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{database: database}
}

func (repo *NotificationRepository) Create(notification *models.Notification) error {
	return repo.database.Create(notification).Error
}

func (repo *NotificationRepository) ListByUser(userID uint, limit int, offset int) ([]models.Notification, error) {
	notifications := make([]models.Notification, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Preload("RelatedUser").
		Preload("RelatedProject").
		Preload("RelatedIssue").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (repo *NotificationRepository) CountByUser(userID uint) (int64, error) {
	var total int64
	err := repo.database.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total).Error
	return total, err
}

func (repo *NotificationRepository) CountUnread(userID uint) (int64, error) {
	var unread int64
	err := repo.database.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error
	return unread, err
}

func (repo *NotificationRepository) FindForUser(notificationID uint, userID uint) (models.Notification, error) {
	var notification models.Notification
	if err := repo.database.
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		return models.Notification{}, err
	}
	return notification, nil
}

func (repo *NotificationRepository) MarkRead(notificationID uint) error {
	return repo.database.Model(&models.Notification{}).Where("id = ?", notificationID).Update("is_read", true).Error
}

func (repo *NotificationRepository) MarkAllRead(userID uint) (int64, error) {
	result := repo.database.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (repo *NotificationRepository) Delete(notificationID uint) error {
	return repo.database.Delete(&models.Notification{}, notificationID).Error
}
