package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is one human-readable entry of a user's append-only feed.
type Notification struct {
	BaseModel
	UserID  string           `gorm:"size:36;not null;index"`
	Type    NotificationType `gorm:"size:32;not null"`
	Message string           `gorm:"not null"`
	Data    datatypes.JSON   // {"skill": "...", "amount": 5, ...}
	IsRead  bool             `gorm:"default:false"`
	ReadAt  *time.Time
}
