package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"skillswap_backend/internal/auth"
	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/models"
	"skillswap_backend/internal/repositories"
	"skillswap_backend/internal/services/dto"
	"skillswap_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const maxUsernameAttempts = 20

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserProfile, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	VerifyToken(token string) (*auth.Claims, error)
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager

	mu  sync.Mutex
	rng *rand.Rand
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Register creates the account with a generated unique username and the default token balance.
func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserProfile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	taken, err := s.userRepo.ExistsByEmail(db, email, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	username, err := s.uniqueUsername(db)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tokens := models.DefaultTokens
	user := &models.User{
		FName:        strings.TrimSpace(req.FName),
		LName:        strings.TrimSpace(req.LName),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Tokens:       &tokens,
	}
	if err := s.userRepo.Create(db.WithContext(ctx), user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return toUserProfile(user), nil
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrInvalidCredentials)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	full, err := s.userRepo.FindWithRelations(db, user.ID)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}
	token, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID)
	return &dto.LoginResponse{
		User:        toUserProfile(full),
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *authService) VerifyToken(token string) (*auth.Claims, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

var (
	usernameAdjectives = []string{"brave", "calm", "eager", "fuzzy", "happy", "jolly", "keen", "lucky", "mellow", "nimble", "quick", "sunny", "witty", "zesty"}
	usernameNouns      = []string{"otter", "panda", "falcon", "koala", "lynx", "maple", "comet", "cedar", "pixel", "river", "tiger", "willow"}
)

// uniqueUsername draws adjective+noun+digits names (at most 15 chars) until one is free.
func (s *authService) uniqueUsername(db *gorm.DB) (string, error) {
	for i := 0; i < maxUsernameAttempts; i++ {
		s.mu.Lock()
		name := usernameAdjectives[s.rng.Intn(len(usernameAdjectives))] +
			usernameNouns[s.rng.Intn(len(usernameNouns))] +
			fmt.Sprintf("%d", s.rng.Intn(1000))
		s.mu.Unlock()
		if len(name) > 15 {
			name = name[:15]
		}

		taken, err := s.userRepo.ExistsByUsername(db, name, "")
		if err != nil {
			return "", apperrors.InternalError(err)
		}
		if !taken {
			return name, nil
		}
	}
	return "", apperrors.InternalError(fmt.Errorf("no free username after %d attempts", maxUsernameAttempts))
}

func toUserProfile(u *models.User) *dto.UserProfile {
	return &dto.UserProfile{
		ID:          u.ID,
		FName:       u.FName,
		LName:       u.LName,
		Email:       u.Email,
		Username:    u.Username,
		Bio:         u.Bio,
		Tokens:      u.TokenBalance(),
		Skills:      models.SkillNames(u.Skills),
		Interests:   models.SkillNames(u.Interests),
		SkillVideos: u.SkillVideoMap(),
		CreatedAt:   u.CreatedAt,
	}
}

func toPublicProfile(u *models.User) dto.PublicProfile {
	return dto.PublicProfile{
		ID:          u.ID,
		FName:       u.FName,
		LName:       u.LName,
		Username:    u.Username,
		Bio:         u.Bio,
		Skills:      models.SkillNames(u.Skills),
		Interests:   models.SkillNames(u.Interests),
		SkillVideos: u.SkillVideoMap(),
	}
}
