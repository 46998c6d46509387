package services

import (
	"context"
	"errors"
	"strings"

	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/models"
	"skillswap_backend/internal/repositories"
	"skillswap_backend/internal/services/dto"
	"skillswap_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	// Profile
	GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.UserProfile, error)
	GetPublicProfile(ctx context.Context, db *gorm.DB, username string) (*dto.PublicProfile, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserProfile, error)
	UpdateSkills(ctx context.Context, db *gorm.DB, userID string, names []string) (*dto.UserProfile, error)
	UpdateInterests(ctx context.Context, db *gorm.DB, userID string, names []string) (*dto.UserProfile, error)
	GetMatches(ctx context.Context, db *gorm.DB, userID string) ([]dto.PublicProfile, error)

	// Skill videos
	SaveSkillVideo(ctx context.Context, db *gorm.DB, userID string, req *dto.SaveVideoRequest) (map[string]string, error)
	DeleteSkillVideo(ctx context.Context, db *gorm.DB, userID, skill string) (map[string]string, error)

	// Catalog
	ListSkills(ctx context.Context, db *gorm.DB) ([]dto.SkillResponse, error)
}

type userService struct {
	userRepo  repositories.UserRepository
	skillRepo repositories.SkillRepository
	videoRepo repositories.VideoRepository
}

func NewUserService(
	userRepo repositories.UserRepository,
	skillRepo repositories.SkillRepository,
	videoRepo repositories.VideoRepository,
) UserService {
	return &userService{
		userRepo:  userRepo,
		skillRepo: skillRepo,
		videoRepo: videoRepo,
	}
}

func (s *userService) load(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindWithRelations(db, userID)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.UserProfile, error) {
	user, err := s.load(db, userID)
	if err != nil {
		return nil, err
	}
	return toUserProfile(user), nil
}

func (s *userService) GetPublicProfile(ctx context.Context, db *gorm.DB, username string) (*dto.PublicProfile, error) {
	user, err := s.userRepo.FindByUsername(db, username)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}
	profile := toPublicProfile(user)
	return &profile, nil
}

// UpdateProfile applies the non-nil fields; username and email must stay unique.
func (s *userService) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserProfile, error) {
	fields := map[string]interface{}{}
	if req.FName != nil {
		fields["fname"] = strings.TrimSpace(*req.FName)
	}
	if req.LName != nil {
		fields["lname"] = strings.TrimSpace(*req.LName)
	}
	if req.Bio != nil {
		fields["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		taken, err := s.userRepo.ExistsByEmail(db, email, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if taken {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		fields["email"] = email
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		taken, err := s.userRepo.ExistsByUsername(db, username, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if taken {
			return nil, apperrors.ErrUsernameTaken
		}
		fields["username"] = username
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(db.WithContext(ctx), userID, fields); err != nil {
			switch {
			case errors.Is(err, repositories.ErrUserNotFound):
				return nil, apperrors.ErrUserNotFound
			case errors.Is(err, repositories.ErrUserAlreadyExists):
				return nil, apperrors.ErrUsernameTaken
			}
			return nil, apperrors.InternalError(err)
		}
		logger.CtxInfo(ctx, "profile updated", "user_id", userID)
	}
	return s.GetProfile(ctx, db, userID)
}

func (s *userService) UpdateSkills(ctx context.Context, db *gorm.DB, userID string, names []string) (*dto.UserProfile, error) {
	return s.replaceSkillSet(ctx, db, userID, names, s.userRepo.ReplaceSkills)
}

func (s *userService) UpdateInterests(ctx context.Context, db *gorm.DB, userID string, names []string) (*dto.UserProfile, error) {
	return s.replaceSkillSet(ctx, db, userID, names, s.userRepo.ReplaceInterests)
}

// replaceSkillSet resolves names against the catalog; unknown names are ignored and duplicates collapse.
func (s *userService) replaceSkillSet(ctx context.Context, db *gorm.DB, userID string, names []string,
	replace func(*gorm.DB, *models.User, []models.Skill) error) (*dto.UserProfile, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}

	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	skills, err := s.skillRepo.FindByNames(db, cleaned)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replace(tx, user, skills)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.GetProfile(ctx, db, userID)
}

func (s *userService) GetMatches(ctx context.Context, db *gorm.DB, userID string) ([]dto.PublicProfile, error) {
	user, err := s.load(db, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PublicProfile, 0, len(user.Matches))
	for _, m := range user.Matches {
		if m != nil {
			out = append(out, toPublicProfile(m))
		}
	}
	return out, nil
}

// SaveSkillVideo registers or replaces the URL for one of the user's skills.
func (s *userService) SaveSkillVideo(ctx context.Context, db *gorm.DB, userID string, req *dto.SaveVideoRequest) (map[string]string, error) {
	skill := strings.TrimSpace(req.Skill)
	url := strings.TrimSpace(req.VideoURL)
	if err := requireFields(map[string]string{"skill": skill, "videoUrl": url}); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(db, userID); err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}

	video := &models.SkillVideo{UserID: userID, Skill: skill, URL: url}
	if err := s.videoRepo.SaveVideo(db.WithContext(ctx), video); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "skill video saved", "user_id", userID, "skill", skill)
	return s.videoMap(db, userID)
}

func (s *userService) DeleteSkillVideo(ctx context.Context, db *gorm.DB, userID, skill string) (map[string]string, error) {
	skill = strings.TrimSpace(skill)
	if err := requireFields(map[string]string{"skill": skill}); err != nil {
		return nil, err
	}
	if err := s.videoRepo.DeleteVideo(db.WithContext(ctx), userID, skill); err != nil {
		return nil, handleVideoError(err)
	}
	logger.CtxInfo(ctx, "skill video deleted", "user_id", userID, "skill", skill)
	return s.videoMap(db, userID)
}

func (s *userService) videoMap(db *gorm.DB, userID string) (map[string]string, error) {
	user, err := s.load(db, userID)
	if err != nil {
		return nil, err
	}
	return user.SkillVideoMap(), nil
}

func (s *userService) ListSkills(ctx context.Context, db *gorm.DB) ([]dto.SkillResponse, error) {
	skills, err := s.skillRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.SkillResponse, 0, len(skills))
	for _, sk := range skills {
		out = append(out, dto.SkillResponse{ID: sk.ID, Name: sk.Name})
	}
	return out, nil
}
