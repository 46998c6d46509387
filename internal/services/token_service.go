package services

import (
	"context"
	"fmt"
	"strings"

	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/models"
	"skillswap_backend/internal/repositories"
	"skillswap_backend/internal/services/dto"
	"skillswap_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Watching a video costs the viewer TokenCost and pays the owner TokenReward.
const (
	TokenCost   = 5
	TokenReward = 5
)

type TokenService interface {
	RecordVideoView(ctx context.Context, db *gorm.DB, viewerID string, req *dto.WatchVideoRequest) (*dto.WatchVideoResponse, error)
	GetBalance(ctx context.Context, db *gorm.DB, userID string) (*dto.TokenBalanceResponse, error)
}

type tokenService struct {
	userRepo      repositories.UserRepository
	videoRepo     repositories.VideoRepository
	notifications NotificationService
}

func NewTokenService(
	userRepo repositories.UserRepository,
	videoRepo repositories.VideoRepository,
	notifications NotificationService,
) TokenService {
	return &tokenService{
		userRepo:      userRepo,
		videoRepo:     videoRepo,
		notifications: notifications,
	}
}

// RecordVideoView moves tokens from viewer to owner. Both balances and both
// notifications commit together or not at all.
func (s *tokenService) RecordVideoView(ctx context.Context, db *gorm.DB, viewerID string, req *dto.WatchVideoRequest) (*dto.WatchVideoResponse, error) {
	ownerName := strings.TrimSpace(req.VideoOwnerUsername)
	skill := strings.TrimSpace(req.SkillName)
	if err := requireFields(map[string]string{"videoOwnerUsername": ownerName, "skillName": skill}); err != nil {
		return nil, err
	}

	viewer, err := s.userRepo.FindByID(db, viewerID)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}
	owner, err := s.userRepo.FindByUsername(db, ownerName)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrVideoOwnerNotFound)
	}
	if owner.ID == viewer.ID {
		return nil, apperrors.ErrSelfViewRejected
	}
	if _, err := s.videoRepo.FindVideo(db, owner.ID, skill); err != nil {
		return nil, handleVideoError(err)
	}

	var (
		newBalance int
		sent       []*models.Notification
	)
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.userRepo.DebitTokens(tx, viewer.ID, TokenCost)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if !ok {
			current, err := s.userRepo.GetTokenBalance(tx, viewer.ID)
			if err != nil {
				return passOrInternal(err)
			}
			return apperrors.ErrInsufficientTokens.WithDetails(dto.InsufficientTokensDetails{
				CurrentTokens: current,
				Required:      TokenCost,
			})
		}
		if err := s.userRepo.CreditTokens(tx, owner.ID, TokenReward); err != nil {
			return handleUserError(err, apperrors.ErrVideoOwnerNotFound)
		}

		spent, err := s.notifications.Notify(tx, viewer.ID, models.NotificationTokensSpent,
			fmt.Sprintf("🎬 You spent %d tokens watching %s's %s video", TokenCost, owner.Username, skill),
			map[string]interface{}{"skill": skill, "amount": TokenCost, "owner": owner.Username})
		if err != nil {
			return apperrors.InternalError(err)
		}
		earned, err := s.notifications.Notify(tx, owner.ID, models.NotificationTokensEarned,
			fmt.Sprintf("💰 You earned %d tokens! %s watched your %s video", TokenReward, viewer.Username, skill),
			map[string]interface{}{"skill": skill, "amount": TokenReward, "viewer": viewer.Username})
		if err != nil {
			return apperrors.InternalError(err)
		}
		sent = append(sent, spent, earned)

		newBalance, err = s.userRepo.GetTokenBalance(tx, viewer.ID)
		return passOrInternal(err)
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "video view recorded",
		"viewer_id", viewer.ID, "owner_id", owner.ID, "skill", skill, "new_balance", newBalance)
	s.notifications.Push(ctx, sent...)

	return &dto.WatchVideoResponse{
		Message:         "Video view recorded successfully",
		NewTokenBalance: newBalance,
		TokensSpent:     TokenCost,
	}, nil
}

func (s *tokenService) GetBalance(ctx context.Context, db *gorm.DB, userID string) (*dto.TokenBalanceResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}
	return &dto.TokenBalanceResponse{
		Tokens:   user.TokenBalance(),
		Username: user.Username,
	}, nil
}
