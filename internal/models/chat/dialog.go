package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dialog is a one-to-one conversation. UserAID < UserBID always holds, so a pair maps to one row.
type Dialog struct {
	ID            string `gorm:"size:36;primaryKey"`
	UserAID       string `gorm:"size:36;not null;uniqueIndex:idx_dialog_pair"`
	UserBID       string `gorm:"size:36;not null;uniqueIndex:idx_dialog_pair"`
	LastMessage   string
	LastMessageAt *time.Time `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Messages []Message `gorm:"foreignKey:DialogID;constraint:OnDelete:CASCADE"`
}

func (Dialog) TableName() string {
	return "chats"
}

func (d *Dialog) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// SortedPair orders two user ids the way dialogs store them.
func SortedPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

func (d *Dialog) HasParticipant(userID string) bool {
	return d.UserAID == userID || d.UserBID == userID
}

// Other returns the participant that is not userID.
func (d *Dialog) Other(userID string) string {
	if d.UserAID == userID {
		return d.UserBID
	}
	return d.UserAID
}
