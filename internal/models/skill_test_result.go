package models

import "time"

// SkillTestResult is an immutable record of one submitted skill test.
type SkillTestResult struct {
	BaseModel
	UserID         string    `gorm:"size:36;not null;index"`
	Skill          string    `gorm:"size:100;not null;index"`
	Score          int       `gorm:"not null"`
	TotalQuestions int       `gorm:"not null"`
	TimeTaken      int       `gorm:"not null"` // seconds, as reported by the client
	Passed         bool      `gorm:"not null"`
	CertificateID  *string   `gorm:"size:32;uniqueIndex"`
	SessionID      string    `gorm:"size:64;not null;uniqueIndex"`
	CompletedAt    time.Time `gorm:"not null;index"`
}

func (SkillTestResult) TableName() string {
	return "skill_tests"
}
