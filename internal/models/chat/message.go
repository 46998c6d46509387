package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID        string `gorm:"size:36;primaryKey"`
	DialogID  string `gorm:"size:36;index;not null"`
	SenderID  string `gorm:"size:36;index;not null"`
	Content   string `gorm:"type:text;not null"`
	IsRead    bool   `gorm:"default:false"`
	ReadAt    *time.Time
	CreatedAt time.Time `gorm:"index"`
}

func (Message) TableName() string {
	return "chat_messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
