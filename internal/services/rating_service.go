package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/models"
	"skillswap_backend/internal/repositories"
	"skillswap_backend/internal/services/dto"
	"skillswap_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

type RatingService interface {
	Rate(ctx context.Context, db *gorm.DB, raterID string, req *dto.RateVideoRequest) (*dto.RateVideoResponse, error)
	GetRatings(ctx context.Context, db *gorm.DB, username, skill string) (*dto.VideoRatingsResponse, error)
	GetAllRatingsForOwner(ctx context.Context, db *gorm.DB, userID string) (map[string]dto.RatingSummary, error)
}

type ratingService struct {
	userRepo      repositories.UserRepository
	videoRepo     repositories.VideoRepository
	notifications NotificationService
	now           func() time.Time
}

func NewRatingService(
	userRepo repositories.UserRepository,
	videoRepo repositories.VideoRepository,
	notifications NotificationService,
) RatingService {
	return &ratingService{
		userRepo:      userRepo,
		videoRepo:     videoRepo,
		notifications: notifications,
		now:           time.Now,
	}
}

// Average is the mean rounded to one decimal; 0 for no ratings.
func Average(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}

func ratingValues(ratings []models.VideoRating) []int {
	values := make([]int, len(ratings))
	for i, r := range ratings {
		values[i] = r.Rating
	}
	return values
}

// Rate inserts the rater's rating or overwrites the one they gave before.
func (s *ratingService) Rate(ctx context.Context, db *gorm.DB, raterID string, req *dto.RateVideoRequest) (*dto.RateVideoResponse, error) {
	ownerName := strings.TrimSpace(req.VideoOwnerUsername)
	skill := strings.TrimSpace(req.Skill)
	if err := requireFields(map[string]string{"videoOwnerUsername": ownerName, "skill": skill}); err != nil {
		return nil, err
	}
	if req.Rating == nil {
		return nil, apperrors.ValidationError(map[string]string{"rating": "This field is required"})
	}
	rating := *req.Rating
	if rating < MinRating || rating > MaxRating {
		return nil, apperrors.ErrInvalidRating
	}

	rater, err := s.userRepo.FindByID(db, raterID)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}
	owner, err := s.userRepo.FindByUsername(db, ownerName)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrVideoOwnerNotFound)
	}
	if owner.ID == rater.ID {
		return nil, apperrors.ErrSelfRating
	}
	matched, err := s.userRepo.IsMatched(db, rater.ID, owner.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !matched {
		return nil, apperrors.ErrNotMatched
	}
	if _, err := s.videoRepo.FindVideo(db, owner.ID, skill); err != nil {
		return nil, handleVideoError(err)
	}

	var (
		all  []models.VideoRating
		sent *models.Notification
	)
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := &models.VideoRating{
			OwnerID: owner.ID,
			Skill:   skill,
			RaterID: rater.ID,
			Rating:  rating,
			RatedAt: s.now(),
		}
		if err := s.videoRepo.UpsertRating(tx, entry); err != nil {
			return apperrors.InternalError(err)
		}

		var err error
		sent, err = s.notifications.Notify(tx, owner.ID, models.NotificationVideoRated,
			fmt.Sprintf("%s rated your %s video: %d stars", rater.Username, skill, rating),
			map[string]interface{}{"skill": skill, "rating": rating, "rater": rater.Username})
		if err != nil {
			return apperrors.InternalError(err)
		}

		all, err = s.videoRepo.FindRatings(tx, owner.ID, skill)
		return passOrInternal(err)
	})
	if err != nil {
		return nil, err
	}

	avg := Average(ratingValues(all))
	logger.CtxInfo(ctx, "video rated",
		"rater_id", rater.ID, "owner_id", owner.ID, "skill", skill, "rating", rating, "average", avg)
	s.notifications.Push(ctx, sent)

	return &dto.RateVideoResponse{
		Message:       "Rating submitted successfully",
		AverageRating: avg,
		TotalRatings:  len(all),
	}, nil
}

func (s *ratingService) GetRatings(ctx context.Context, db *gorm.DB, username, skill string) (*dto.VideoRatingsResponse, error) {
	owner, err := s.userRepo.FindByUsername(db, username)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}
	ratings, err := s.videoRepo.FindRatings(db, owner.ID, skill)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.VideoRatingsResponse{
		AverageRating: Average(ratingValues(ratings)),
		TotalRatings:  len(ratings),
		Ratings:       make([]dto.RatingEntry, 0, len(ratings)),
	}
	for _, r := range ratings {
		entry := dto.RatingEntry{Rating: r.Rating, CreatedAt: r.RatedAt}
		if r.Rater != nil {
			entry.Username = r.Rater.Username
			entry.FName = r.Rater.FName
			entry.LName = r.Rater.LName
		}
		resp.Ratings = append(resp.Ratings, entry)
	}
	return resp, nil
}

// GetAllRatingsForOwner summarises every skill with at least one rating.
func (s *ratingService) GetAllRatingsForOwner(ctx context.Context, db *gorm.DB, userID string) (map[string]dto.RatingSummary, error) {
	ratings, err := s.videoRepo.FindRatingsByOwner(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	bySkill := map[string][]int{}
	for _, r := range ratings {
		bySkill[r.Skill] = append(bySkill[r.Skill], r.Rating)
	}
	out := make(map[string]dto.RatingSummary, len(bySkill))
	for skill, values := range bySkill {
		out[skill] = dto.RatingSummary{AverageRating: Average(values), TotalRatings: len(values)}
	}
	return out, nil
}
