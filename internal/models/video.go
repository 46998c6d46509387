package models

import "time"

// SkillVideo is the single external video URL a user registered for a skill.
type SkillVideo struct {
	BaseModel
	UserID string `gorm:"size:36;not null;uniqueIndex:idx_skill_video_owner_skill"`
	Skill  string `gorm:"size:100;not null;uniqueIndex:idx_skill_video_owner_skill"`
	URL    string `gorm:"not null"`
}

// VideoRating is one rater's stars for an owner's skill video.
// (owner, skill, rater) is unique; re-rating rewrites Rating and RatedAt on the same row,
// so CreatedAt keeps the entry's original position in the list.
type VideoRating struct {
	BaseModel
	OwnerID string    `gorm:"size:36;not null;uniqueIndex:idx_video_rating_owner_skill_rater"`
	Skill   string    `gorm:"size:100;not null;uniqueIndex:idx_video_rating_owner_skill_rater"`
	RaterID string    `gorm:"size:36;not null;uniqueIndex:idx_video_rating_owner_skill_rater"`
	Rating  int       `gorm:"not null;check:chk_video_rating_range,rating >= 1 AND rating <= 5"`
	RatedAt time.Time `gorm:"not null"`

	Rater *User `gorm:"foreignKey:RaterID"`
}
