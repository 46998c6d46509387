package repositories

import (
	"errors"
	"time"

	"skillswap_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrVideoNotFound = errors.New("skill video not found")

type VideoRepository interface {
	// Video operations
	SaveVideo(db *gorm.DB, video *models.SkillVideo) error
	FindVideo(db *gorm.DB, userID, skill string) (*models.SkillVideo, error)
	DeleteVideo(db *gorm.DB, userID, skill string) error

	// Rating operations
	UpsertRating(db *gorm.DB, rating *models.VideoRating) error
	FindRatings(db *gorm.DB, ownerID, skill string) ([]models.VideoRating, error)
	FindRatingsByOwner(db *gorm.DB, ownerID string) ([]models.VideoRating, error)
}

type VideoRepositoryImpl struct{}

func NewVideoRepository() VideoRepository {
	return &VideoRepositoryImpl{}
}

// SaveVideo stores the URL for (user, skill), replacing an existing one.
func (r *VideoRepositoryImpl) SaveVideo(db *gorm.DB, video *models.SkillVideo) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "skill"}},
		DoUpdates: clause.AssignmentColumns([]string{"url", "updated_at"}),
	}).Create(video).Error
}

func (r *VideoRepositoryImpl) FindVideo(db *gorm.DB, userID, skill string) (*models.SkillVideo, error) {
	var video models.SkillVideo
	err := db.Where("user_id = ? AND skill = ?", userID, skill).First(&video).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepositoryImpl) DeleteVideo(db *gorm.DB, userID, skill string) error {
	result := db.Where("user_id = ? AND skill = ?", userID, skill).Delete(&models.SkillVideo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVideoNotFound
	}
	return nil
}

// Rating operations

// UpsertRating inserts the rating or rewrites rating/rated_at of the rater's existing row.
func (r *VideoRepositoryImpl) UpsertRating(db *gorm.DB, rating *models.VideoRating) error {
	if rating.RatedAt.IsZero() {
		rating.RatedAt = time.Now()
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "skill"}, {Name: "rater_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "rated_at", "updated_at"}),
	}).Create(rating).Error
}

// FindRatings returns one skill's ratings in the order they were first given.
func (r *VideoRepositoryImpl) FindRatings(db *gorm.DB, ownerID, skill string) ([]models.VideoRating, error) {
	var ratings []models.VideoRating
	err := db.Preload("Rater").
		Where("owner_id = ? AND skill = ?", ownerID, skill).
		Order("created_at ASC").Order("id ASC").
		Find(&ratings).Error
	return ratings, err
}

func (r *VideoRepositoryImpl) FindRatingsByOwner(db *gorm.DB, ownerID string) ([]models.VideoRating, error) {
	var ratings []models.VideoRating
	err := db.Preload("Rater").
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").Order("id ASC").
		Find(&ratings).Error
	return ratings, err
}
