package repositories

import (
	"errors"
	"time"

	"skillswap_backend/internal/models/chat"

	"gorm.io/gorm"
)

var (
	ErrDialogNotFound  = errors.New("dialog not found")
	ErrMessageNotFound = errors.New("message not found")
)

type ChatRepository interface {
	// Dialog operations
	CreateDialog(db *gorm.DB, dialog *chat.Dialog) error
	FindDialogByID(db *gorm.DB, id string) (*chat.Dialog, error)
	FindDialogBetweenUsers(db *gorm.DB, user1ID, user2ID string) (*chat.Dialog, error)
	FindUserDialogs(db *gorm.DB, userID string) ([]chat.Dialog, error)
	DeleteDialog(db *gorm.DB, id string) error

	// Message operations
	CreateMessage(db *gorm.DB, message *chat.Message) error
	FindMessagesByDialog(db *gorm.DB, dialogID string) ([]chat.Message, error)
	MarkMessagesAsRead(db *gorm.DB, dialogID, userID string) (int64, error)
	CountUnread(db *gorm.DB, dialogID, userID string) (int64, error)
}

type ChatRepositoryImpl struct{}

func NewChatRepository() ChatRepository {
	return &ChatRepositoryImpl{}
}

// Dialog operations

func (r *ChatRepositoryImpl) CreateDialog(db *gorm.DB, dialog *chat.Dialog) error {
	dialog.UserAID, dialog.UserBID = chat.SortedPair(dialog.UserAID, dialog.UserBID)
	return db.Create(dialog).Error
}

func (r *ChatRepositoryImpl) FindDialogByID(db *gorm.DB, id string) (*chat.Dialog, error) {
	var dialog chat.Dialog
	if err := db.First(&dialog, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDialogNotFound
		}
		return nil, err
	}
	return &dialog, nil
}

func (r *ChatRepositoryImpl) FindDialogBetweenUsers(db *gorm.DB, user1ID, user2ID string) (*chat.Dialog, error) {
	a, b := chat.SortedPair(user1ID, user2ID)
	var dialog chat.Dialog
	if err := db.Where("user_a_id = ? AND user_b_id = ?", a, b).First(&dialog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDialogNotFound
		}
		return nil, err
	}
	return &dialog, nil
}

// FindUserDialogs orders by latest activity, dialogs without messages by creation time.
func (r *ChatRepositoryImpl) FindUserDialogs(db *gorm.DB, userID string) ([]chat.Dialog, error) {
	var dialogs []chat.Dialog
	err := db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("COALESCE(last_message_at, created_at) DESC").
		Find(&dialogs).Error
	return dialogs, err
}

func (r *ChatRepositoryImpl) DeleteDialog(db *gorm.DB, id string) error {
	if err := db.Where("dialog_id = ?", id).Delete(&chat.Message{}).Error; err != nil {
		return err
	}
	result := db.Delete(&chat.Dialog{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDialogNotFound
	}
	return nil
}

// Message operations

func (r *ChatRepositoryImpl) CreateMessage(db *gorm.DB, message *chat.Message) error {
	if err := db.Create(message).Error; err != nil {
		return err
	}
	at := message.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	return db.Model(&chat.Dialog{}).Where("id = ?", message.DialogID).
		Updates(map[string]interface{}{
			"last_message":    message.Content,
			"last_message_at": at,
			"updated_at":      time.Now(),
		}).Error
}

func (r *ChatRepositoryImpl) FindMessagesByDialog(db *gorm.DB, dialogID string) ([]chat.Message, error) {
	var messages []chat.Message
	err := db.Where("dialog_id = ?", dialogID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// MarkMessagesAsRead flags every message not sent by userID.
func (r *ChatRepositoryImpl) MarkMessagesAsRead(db *gorm.DB, dialogID, userID string) (int64, error) {
	result := db.Model(&chat.Message{}).
		Where("dialog_id = ? AND sender_id <> ? AND is_read = ?", dialogID, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *ChatRepositoryImpl) CountUnread(db *gorm.DB, dialogID, userID string) (int64, error) {
	var count int64
	err := db.Model(&chat.Message{}).
		Where("dialog_id = ? AND sender_id <> ? AND is_read = ?", dialogID, userID, false).
		Count(&count).Error
	return count, err
}
