package repositories

import (
	"encoding/json"
	"errors"
	"time"

	"skillswap_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrInvalidNotificationData = errors.New("invalid notification data")

type NotificationRepository interface {
	CreateNotification(db *gorm.DB, userID string, kind models.NotificationType, message string, data map[string]interface{}) (*models.Notification, error)
	FindUserNotifications(db *gorm.DB, userID string, limit int) ([]models.Notification, error)
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)
	MarkAllAsRead(db *gorm.DB, userID string) error
	DeleteReadBefore(db *gorm.DB, cutoff time.Time) (int64, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) CreateNotification(db *gorm.DB, userID string, kind models.NotificationType, message string, data map[string]interface{}) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Message: message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, ErrInvalidNotificationData
		}
		notification.Data = datatypes.JSON(raw)
	}
	if err := db.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

// FindUserNotifications returns newest first; limit <= 0 means all.
func (r *NotificationRepositoryImpl) FindUserNotifications(db *gorm.DB, userID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	q := db.Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, userID string) error {
	now := time.Now()
	return db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

// DeleteReadBefore prunes read notifications created before cutoff. Unread ones are kept.
func (r *NotificationRepositoryImpl) DeleteReadBefore(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("is_read = ? AND created_at < ?", true, cutoff).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
