package services

import (
	"context"
	"encoding/json"

	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/models"
	"skillswap_backend/internal/repositories"
	"skillswap_backend/internal/services/dto"

	"gorm.io/gorm"
)

// Broadcaster pushes realtime events. Delivery is best-effort.
type Broadcaster interface {
	BroadcastToRoom(room, event string, payload interface{})
	SendToUser(userID, event string, payload interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToRoom(string, string, interface{}) {}
func (noopBroadcaster) SendToUser(string, string, interface{})      {}

type NotificationService interface {
	// Notify appends to the user's feed using db, which may be a transaction.
	Notify(db *gorm.DB, userID string, kind models.NotificationType, message string, data map[string]interface{}) (*models.Notification, error)
	// Push sends already committed notifications to connected clients.
	Push(ctx context.Context, notifications ...*models.Notification)
	GetUserNotifications(ctx context.Context, db *gorm.DB, userID string) (*dto.NotificationListResponse, error)
	MarkAllAsRead(ctx context.Context, db *gorm.DB, userID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	broadcaster      Broadcaster
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, broadcaster Broadcaster) NotificationService {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	return &notificationService{
		notificationRepo: notificationRepo,
		broadcaster:      broadcaster,
	}
}

func (s *notificationService) Notify(db *gorm.DB, userID string, kind models.NotificationType, message string, data map[string]interface{}) (*models.Notification, error) {
	return s.notificationRepo.CreateNotification(db, userID, kind, message, data)
}

func (s *notificationService) Push(ctx context.Context, notifications ...*models.Notification) {
	for _, n := range notifications {
		if n == nil {
			continue
		}
		s.broadcaster.SendToUser(n.UserID, "notification", toNotificationResponse(n))
		logger.CtxDebug(ctx, "notification pushed", "user_id", n.UserID, "type", n.Type)
	}
}

func (s *notificationService) GetUserNotifications(ctx context.Context, db *gorm.DB, userID string) (*dto.NotificationListResponse, error) {
	notifications, err := s.notificationRepo.FindUserNotifications(db, userID, 0)
	if err != nil {
		return nil, passOrInternal(err)
	}
	unread, err := s.notificationRepo.GetUnreadCount(db, userID)
	if err != nil {
		return nil, passOrInternal(err)
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		UnreadCount:   unread,
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, toNotificationResponse(&notifications[i]))
	}
	return resp, nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, db *gorm.DB, userID string) error {
	return passOrInternal(s.notificationRepo.MarkAllAsRead(db, userID))
}

func toNotificationResponse(n *models.Notification) dto.NotificationResponse {
	resp := dto.NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			resp.Data = data
		}
	}
	return resp
}
