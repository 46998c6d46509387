package dto

import "time"

type CreateChatRequest struct {
	ParticipantID string `json:"participantId" validate:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,not-blank,max=5000"`
}

type ChatParticipant struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FName    string `json:"fname"`
	LName    string `json:"lname"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"isRead"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatResponse struct {
	ID            string            `json:"id"`
	Participants  []ChatParticipant `json:"participants"`
	LastMessage   string            `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time        `json:"lastMessageAt,omitempty"`
	UnreadCount   int64             `json:"unreadCount"`
	Messages      []MessageResponse `json:"messages,omitempty"`
}

type AssistantRequest struct {
	Message string `json:"message" validate:"required,not-blank,max=2000"`
}

type AssistantResponse struct {
	Reply string `json:"reply"`
}
