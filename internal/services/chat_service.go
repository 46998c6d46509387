package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/models"
	"skillswap_backend/internal/models/chat"
	"skillswap_backend/internal/repositories"
	"skillswap_backend/internal/services/dto"
	"skillswap_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ChatService interface {
	// Dialogs
	GetOrCreateChat(ctx context.Context, db *gorm.DB, userID, participantID string) (*dto.ChatResponse, error)
	GetUserChats(ctx context.Context, db *gorm.DB, userID string) ([]*dto.ChatResponse, error)
	GetChat(ctx context.Context, db *gorm.DB, userID, chatID string) (*dto.ChatResponse, error)
	DeleteChat(ctx context.Context, db *gorm.DB, userID, chatID string) error

	// Messages
	SendMessage(ctx context.Context, db *gorm.DB, userID, chatID, content string) (*dto.MessageResponse, error)
	MarkAsRead(ctx context.Context, db *gorm.DB, userID, chatID string) (int64, error)

	// CanAccess reports whether userID participates in chatID.
	CanAccess(ctx context.Context, db *gorm.DB, userID, chatID string) bool
}

type chatService struct {
	chatRepo      repositories.ChatRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	broadcaster   Broadcaster
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
	broadcaster Broadcaster,
) ChatService {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	return &chatService{
		chatRepo:      chatRepo,
		userRepo:      userRepo,
		notifications: notifications,
		broadcaster:   broadcaster,
	}
}

func (s *chatService) GetOrCreateChat(ctx context.Context, db *gorm.DB, userID, participantID string) (*dto.ChatResponse, error) {
	participantID = strings.TrimSpace(participantID)
	if err := requireFields(map[string]string{"participantId": participantID}); err != nil {
		return nil, err
	}
	if participantID == userID {
		return nil, apperrors.ErrCannotChatSelf
	}
	if _, err := s.userRepo.FindByID(db, participantID); err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}

	dialog, err := s.chatRepo.FindDialogBetweenUsers(db, userID, participantID)
	if errors.Is(err, repositories.ErrDialogNotFound) {
		dialog = &chat.Dialog{UserAID: userID, UserBID: participantID}
		if err = s.chatRepo.CreateDialog(db.WithContext(ctx), dialog); err != nil {
			// lost a create race; the other request's row is the one to use
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				dialog, err = s.chatRepo.FindDialogBetweenUsers(db, userID, participantID)
			}
		}
		if err == nil {
			logger.CtxInfo(ctx, "chat created", "chat_id", dialog.ID)
		}
	}
	if err != nil {
		return nil, handleChatError(err)
	}
	return s.buildChatResponse(db, userID, dialog, true)
}

func (s *chatService) GetUserChats(ctx context.Context, db *gorm.DB, userID string) ([]*dto.ChatResponse, error) {
	dialogs, err := s.chatRepo.FindUserDialogs(db, userID)
	if err != nil {
		return nil, handleChatError(err)
	}
	out := make([]*dto.ChatResponse, 0, len(dialogs))
	for i := range dialogs {
		resp, err := s.buildChatResponse(db, userID, &dialogs[i], false)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *chatService) GetChat(ctx context.Context, db *gorm.DB, userID, chatID string) (*dto.ChatResponse, error) {
	dialog, err := s.participantDialog(db, userID, chatID)
	if err != nil {
		return nil, err
	}
	return s.buildChatResponse(db, userID, dialog, true)
}

func (s *chatService) DeleteChat(ctx context.Context, db *gorm.DB, userID, chatID string) error {
	if _, err := s.participantDialog(db, userID, chatID); err != nil {
		return err
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.chatRepo.DeleteDialog(tx, chatID)
	})
	if err != nil {
		return handleChatError(err)
	}
	logger.CtxInfo(ctx, "chat deleted", "chat_id", chatID, "user_id", userID)
	return nil
}

// SendMessage persists the message, then broadcasts it to the chat room.
func (s *chatService) SendMessage(ctx context.Context, db *gorm.DB, userID, chatID, content string) (*dto.MessageResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.ValidationError(map[string]string{"content": "Message cannot be empty"})
	}
	dialog, err := s.participantDialog(db, userID, chatID)
	if err != nil {
		return nil, err
	}
	sender, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}

	msg := &chat.Message{DialogID: dialog.ID, SenderID: userID, Content: content, CreatedAt: time.Now().UTC()}
	var sent *models.Notification
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.chatRepo.CreateMessage(tx, msg); err != nil {
			return err
		}
		var err error
		sent, err = s.notifications.Notify(tx, dialog.Other(userID), models.NotificationNewMessage,
			"New message from "+sender.Username,
			map[string]interface{}{"chatId": dialog.ID, "username": sender.Username})
		return err
	})
	if err != nil {
		return nil, handleChatError(err)
	}

	resp := toMessageResponse(msg)
	s.broadcaster.BroadcastToRoom(dialog.ID, "receive-message", resp)
	s.notifications.Push(ctx, sent)
	return &resp, nil
}

func (s *chatService) MarkAsRead(ctx context.Context, db *gorm.DB, userID, chatID string) (int64, error) {
	if _, err := s.participantDialog(db, userID, chatID); err != nil {
		return 0, err
	}
	n, err := s.chatRepo.MarkMessagesAsRead(db.WithContext(ctx), chatID, userID)
	if err != nil {
		return 0, handleChatError(err)
	}
	return n, nil
}

func (s *chatService) CanAccess(ctx context.Context, db *gorm.DB, userID, chatID string) bool {
	_, err := s.participantDialog(db, userID, chatID)
	return err == nil
}

// participantDialog hides chats the user is not part of behind not-found.
func (s *chatService) participantDialog(db *gorm.DB, userID, chatID string) (*chat.Dialog, error) {
	dialog, err := s.chatRepo.FindDialogByID(db, chatID)
	if err != nil {
		return nil, handleChatError(err)
	}
	if !dialog.HasParticipant(userID) {
		return nil, apperrors.ErrChatNotFound
	}
	return dialog, nil
}

func (s *chatService) buildChatResponse(db *gorm.DB, userID string, dialog *chat.Dialog, withMessages bool) (*dto.ChatResponse, error) {
	resp := &dto.ChatResponse{
		ID:            dialog.ID,
		Participants:  make([]dto.ChatParticipant, 0, 2),
		LastMessage:   dialog.LastMessage,
		LastMessageAt: dialog.LastMessageAt,
	}
	for _, id := range []string{dialog.UserAID, dialog.UserBID} {
		u, err := s.userRepo.FindByID(db, id)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				continue
			}
			return nil, apperrors.InternalError(err)
		}
		resp.Participants = append(resp.Participants, dto.ChatParticipant{
			ID: u.ID, Username: u.Username, FName: u.FName, LName: u.LName,
		})
	}

	unread, err := s.chatRepo.CountUnread(db, dialog.ID, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp.UnreadCount = unread

	if withMessages {
		messages, err := s.chatRepo.FindMessagesByDialog(db, dialog.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		resp.Messages = make([]dto.MessageResponse, 0, len(messages))
		for i := range messages {
			resp.Messages = append(resp.Messages, toMessageResponse(&messages[i]))
		}
	}
	return resp, nil
}

func toMessageResponse(m *chat.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:        m.ID,
		ChatID:    m.DialogID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		IsRead:    m.IsRead,
		Timestamp: m.CreatedAt,
	}
}

func handleChatError(err error) error {
	if errors.Is(err, repositories.ErrDialogNotFound) {
		return apperrors.ErrChatNotFound
	}
	return passOrInternal(err)
}
