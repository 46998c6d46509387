package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"skillswap_backend/internal/algorithms"
	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/models"
	"skillswap_backend/internal/repositories"
	"skillswap_backend/internal/services/dto"
	"skillswap_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const defaultCandidateLimit = 50

type MatchingService interface {
	GetCandidates(ctx context.Context, db *gorm.DB, userID string, limit int) ([]dto.SwipeCandidate, error)
	Like(ctx context.Context, db *gorm.DB, userID, username string) (*dto.LikeResponse, error)
	Reject(ctx context.Context, db *gorm.DB, userID, username string) error
}

type matchingService struct {
	userRepo      repositories.UserRepository
	notifications NotificationService
}

func NewMatchingService(userRepo repositories.UserRepository, notifications NotificationService) MatchingService {
	return &matchingService{
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// GetCandidates ranks unseen users by swap score, best first.
func (s *matchingService) GetCandidates(ctx context.Context, db *gorm.DB, userID string, limit int) ([]dto.SwipeCandidate, error) {
	if limit <= 0 {
		limit = defaultCandidateLimit
	}
	me, err := s.userRepo.FindWithRelations(db, userID)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}
	users, err := s.userRepo.FindCandidates(db, userID, 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.SwipeCandidate, 0, len(users))
	for i := range users {
		score, reasons := algorithms.SwapScore(me, &users[i])
		out = append(out, dto.SwipeCandidate{Profile: toPublicProfile(&users[i]), Score: score, Reasons: reasons})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Like records interest in username. A mutual like turns into a symmetric match.
func (s *matchingService) Like(ctx context.Context, db *gorm.DB, userID, username string) (*dto.LikeResponse, error) {
	me, target, err := s.resolvePair(db, userID, username)
	if err != nil {
		return nil, err
	}

	matched := false
	var sent []*models.Notification
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		already, err := s.userRepo.IsMatched(tx, me.ID, target.ID)
		if err != nil {
			return err
		}
		if already {
			matched = true
			return nil
		}

		// target liked me first
		mutual, err := s.userRepo.HasMatchRequest(tx, me.ID, target.ID)
		if err != nil {
			return err
		}
		if !mutual {
			if err := s.userRepo.AddMatchRequest(tx, target.ID, me.ID); err != nil {
				return err
			}
			n, err := s.notifications.Notify(tx, target.ID, models.NotificationMatchRequest,
				fmt.Sprintf("%s wants to swap skills with you", me.Username),
				map[string]interface{}{"username": me.Username})
			if err != nil {
				return err
			}
			sent = append(sent, n)
			return nil
		}

		if err := s.userRepo.AddMatch(tx, me.ID, target.ID); err != nil {
			return err
		}
		if err := s.userRepo.RemoveMatchRequest(tx, me.ID, target.ID); err != nil {
			return err
		}
		for _, pair := range [][2]*models.User{{me, target}, {target, me}} {
			n, err := s.notifications.Notify(tx, pair[0].ID, models.NotificationMatch,
				fmt.Sprintf("It's a match! You and %s can now swap skills", pair[1].Username),
				map[string]interface{}{"username": pair[1].Username})
			if err != nil {
				return err
			}
			sent = append(sent, n)
		}
		matched = true
		return nil
	})
	if err != nil {
		return nil, passOrInternal(err)
	}

	s.notifications.Push(ctx, sent...)
	if matched {
		logger.CtxInfo(ctx, "users matched", "user_id", me.ID, "other_id", target.ID)
		return &dto.LikeResponse{Matched: true, Message: "It's a match!"}, nil
	}
	return &dto.LikeResponse{Matched: false, Message: "Like sent"}, nil
}

func (s *matchingService) Reject(ctx context.Context, db *gorm.DB, userID, username string) error {
	me, target, err := s.resolvePair(db, userID, username)
	if err != nil {
		return err
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.AddRejection(tx, me.ID, target.ID); err != nil {
			return err
		}
		return s.userRepo.RemoveMatchRequest(tx, me.ID, target.ID)
	})
	return passOrInternal(err)
}

func (s *matchingService) resolvePair(db *gorm.DB, userID, username string) (*models.User, *models.User, error) {
	username = strings.TrimSpace(username)
	if err := requireFields(map[string]string{"username": username}); err != nil {
		return nil, nil, err
	}
	me, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, nil, handleUserError(err, apperrors.ErrUserNotFound)
	}
	target, err := s.userRepo.FindByUsername(db, username)
	if err != nil {
		return nil, nil, handleUserError(err, apperrors.ErrUserNotFound)
	}
	if me.ID == target.ID {
		return nil, nil, apperrors.ErrCannotSwipeSelf
	}
	return me, target, nil
}
