package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skillswap_backend/internal/logger"
	"skillswap_backend/internal/models"
	"skillswap_backend/internal/repositories"
	"skillswap_backend/internal/services/dto"
	"skillswap_backend/internal/skilltest"
	"skillswap_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SkillTestService interface {
	ListAvailable(ctx context.Context, db *gorm.DB, userID string) (*dto.AvailableTestsResponse, error)
	Start(ctx context.Context, skill string) (*dto.StartTestResponse, error)
	Submit(ctx context.Context, db *gorm.DB, userID string, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error)
	History(ctx context.Context, db *gorm.DB, userID string) (*dto.TestHistoryResponse, error)
	Certificate(ctx context.Context, db *gorm.DB, userID, certificateID string) (*dto.CertificateResponse, error)
}

type skillTestService struct {
	engine        *skilltest.Engine
	sessions      skilltest.SessionStore
	grace         time.Duration
	testRepo      repositories.SkillTestRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	now           func() time.Time
}

func NewSkillTestService(
	engine *skilltest.Engine,
	sessions skilltest.SessionStore,
	grace time.Duration,
	testRepo repositories.SkillTestRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
) SkillTestService {
	return &skillTestService{
		engine:        engine,
		sessions:      sessions,
		grace:         grace,
		testRepo:      testRepo,
		userRepo:      userRepo,
		notifications: notifications,
		now:           time.Now,
	}
}

func (s *skillTestService) ListAvailable(ctx context.Context, db *gorm.DB, userID string) (*dto.AvailableTestsResponse, error) {
	user, err := s.userRepo.FindWithRelations(db, userID)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}
	results, err := s.testRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	skills := s.engine.Bank().Skills()
	resp := &dto.AvailableTestsResponse{
		Tests:         make([]dto.AvailableTest, 0, len(skills)),
		UserInterests: models.SkillNames(user.Interests),
	}
	for _, skill := range skills {
		t := dto.AvailableTest{
			Skill:          skill,
			TotalQuestions: skilltest.QuestionsPerTest,
			TimeLimit:      skilltest.TimeLimitSeconds,
			PassingScore:   skilltest.PassingScore,
		}
		for i := range results {
			r := &results[i]
			if r.Skill != skill {
				continue
			}
			t.Attempts++
			if r.Score > t.BestScore {
				t.BestScore = r.Score
			}
			if t.LastAttempt == nil || r.CompletedAt.After(*t.LastAttempt) {
				at := r.CompletedAt
				t.LastAttempt = &at
			}
		}
		t.HasPassed = t.BestScore >= skilltest.PassingScore
		resp.Tests = append(resp.Tests, t)
	}
	return resp, nil
}

func (s *skillTestService) Start(ctx context.Context, skill string) (*dto.StartTestResponse, error) {
	session, err := s.engine.Start(skill)
	if err != nil {
		if errors.Is(err, skilltest.ErrUnknownSkill) {
			return nil, apperrors.ErrUnknownSkill
		}
		return nil, apperrors.InternalError(err)
	}
	token, err := s.sessions.Issue(ctx, session)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxDebug(ctx, "skill test started", "skill", skill, "session_id", session.ID)
	return &dto.StartTestResponse{
		Skill:          skill,
		Questions:      skilltest.ClientQuestions(session.Questions),
		TimeLimit:      skilltest.TimeLimitSeconds,
		TotalQuestions: skilltest.QuestionsPerTest,
		PassingScore:   skilltest.PassingScore,
		TestSessionID:  token,
	}, nil
}

// Submit grades a session exactly once and stores the immutable result.
func (s *skillTestService) Submit(ctx context.Context, db *gorm.DB, userID string, req *dto.SubmitTestRequest) (*dto.SubmitTestResponse, error) {
	skill := strings.TrimSpace(req.Skill)
	if err := requireFields(map[string]string{"skill": skill, "testSessionId": req.TestSessionID}); err != nil {
		return nil, err
	}
	ctx = logger.WithAttrs(ctx, "skill", skill)
	if req.TimeTaken < 0 {
		return nil, apperrors.ValidationError(map[string]string{"timeTaken": "Must be at least 0"})
	}

	session, err := s.sessions.Open(ctx, req.TestSessionID)
	if err != nil {
		return nil, handleSessionError(err)
	}
	if session.Skill != skill {
		return nil, apperrors.ErrSessionMismatch
	}
	if s.now().After(skilltest.Deadline(session, s.grace)) {
		return nil, apperrors.ErrSessionExpired
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}

	grade := skilltest.GradeSession(session, req.Answers)
	result := &models.SkillTestResult{
		UserID:         user.ID,
		Skill:          skill,
		Score:          grade.Score,
		TotalQuestions: grade.Total,
		TimeTaken:      req.TimeTaken,
		Passed:         grade.Passed,
		SessionID:      session.ID,
		CompletedAt:    s.now().UTC(),
	}
	if grade.Passed {
		certID, err := skilltest.NewCertificateID()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		result.CertificateID = &certID
	}

	var sent *models.Notification
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		used, err := s.testRepo.SessionUsed(tx, session.ID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if used {
			return apperrors.ErrSessionConsumed
		}
		if err := s.testRepo.Create(tx, result); err != nil {
			if errors.Is(err, repositories.ErrSessionAlreadyUsed) {
				return apperrors.ErrSessionConsumed
			}
			return apperrors.InternalError(err)
		}

		kind, msg := models.NotificationTestFailed,
			fmt.Sprintf("You scored %d%% on the %s test. Keep practicing!", grade.Score, skill)
		if grade.Passed {
			kind, msg = models.NotificationTestPassed,
				fmt.Sprintf("Congratulations! You passed the %s test with %d%% score", skill, grade.Score)
		}
		sent, err = s.notifications.Notify(tx, user.ID, kind, msg,
			map[string]interface{}{"skill": skill, "score": grade.Score, "certificateId": result.CertificateID})
		if err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the result row already blocks a replay; the store only gives it up early
	if err := s.sessions.Consume(ctx, session); err != nil {
		logger.CtxWarn(ctx, "failed to consume test session", "session_id", session.ID, "error", err.Error())
	}

	logger.CtxInfo(ctx, "skill test submitted",
		"user_id", user.ID, "skill", skill, "score", grade.Score, "passed", grade.Passed)
	s.notifications.Push(ctx, sent)

	message := fmt.Sprintf("You scored %d%%. Need %d%% to pass.", grade.Score, skilltest.PassingScore)
	if grade.Passed {
		message = fmt.Sprintf("Congratulations! You passed with %d%%", grade.Score)
	}
	return &dto.SubmitTestResponse{
		Score:          grade.Score,
		Passed:         grade.Passed,
		CorrectAnswers: grade.Correct,
		TotalQuestions: grade.Total,
		Results:        grade.Results,
		CertificateID:  result.CertificateID,
		Message:        message,
	}, nil
}

func (s *skillTestService) History(ctx context.Context, db *gorm.DB, userID string) (*dto.TestHistoryResponse, error) {
	results, err := s.testRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := &dto.TestHistoryResponse{History: make([]dto.TestHistoryEntry, 0, len(results))}
	for _, r := range results {
		resp.History = append(resp.History, dto.TestHistoryEntry{
			Skill:          r.Skill,
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			Passed:         r.Passed,
			CertificateID:  r.CertificateID,
			CompletedAt:    r.CompletedAt,
			TimeTaken:      r.TimeTaken,
		})
	}
	return resp, nil
}

// Certificate only searches the requesting user's own results.
func (s *skillTestService) Certificate(ctx context.Context, db *gorm.DB, userID, certificateID string) (*dto.CertificateResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err, apperrors.ErrUserNotFound)
	}
	result, err := s.testRepo.FindCertificate(db, userID, certificateID)
	if err != nil {
		if errors.Is(err, repositories.ErrTestResultNotFound) {
			return nil, apperrors.ErrCertificateNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return &dto.CertificateResponse{
		CertificateID: *result.CertificateID,
		UserName:      user.FullName(),
		Username:      user.Username,
		Skill:         result.Skill,
		Score:         result.Score,
		CompletedAt:   result.CompletedAt,
		Verified:      true,
	}, nil
}

func handleSessionError(err error) error {
	switch {
	case errors.Is(err, skilltest.ErrInvalidSession):
		return apperrors.ErrInvalidSession
	case errors.Is(err, skilltest.ErrSessionExpired):
		return apperrors.ErrSessionExpired
	case errors.Is(err, skilltest.ErrSessionConsumed):
		return apperrors.ErrSessionConsumed
	}
	return apperrors.InternalError(err)
}
