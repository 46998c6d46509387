package dto

import (
	"time"

	"skillswap_backend/internal/skilltest"
)

type AvailableTest struct {
	Skill          string     `json:"skill"`
	TotalQuestions int        `json:"totalQuestions"`
	TimeLimit      int        `json:"timeLimit"`
	PassingScore   int        `json:"passingScore"`
	BestScore      int        `json:"bestScore"`
	Attempts       int        `json:"attempts"`
	LastAttempt    *time.Time `json:"lastAttempt"`
	HasPassed      bool       `json:"hasPassed"`
}

type AvailableTestsResponse struct {
	Tests         []AvailableTest `json:"tests"`
	UserInterests []string        `json:"userInterests"`
}

type StartTestResponse struct {
	Skill          string                     `json:"skill"`
	Questions      []skilltest.ClientQuestion `json:"questions"`
	TimeLimit      int                        `json:"timeLimit"`
	TotalQuestions int                        `json:"totalQuestions"`
	PassingScore   int                        `json:"passingScore"`
	TestSessionID  string                     `json:"testSessionId"`
}

type SubmitTestRequest struct {
	Skill         string `json:"skill" validate:"required,not-blank"`
	Answers       []*int `json:"answers"`
	TimeTaken     int    `json:"timeTaken" validate:"min=0"`
	TestSessionID string `json:"testSessionId" validate:"required"`
}

type SubmitTestResponse struct {
	Score          int                        `json:"score"`
	Passed         bool                       `json:"passed"`
	CorrectAnswers int                        `json:"correctAnswers"`
	TotalQuestions int                        `json:"totalQuestions"`
	Results        []skilltest.QuestionResult `json:"results"`
	CertificateID  *string                    `json:"certificateId"`
	Message        string                     `json:"message"`
}

type TestHistoryEntry struct {
	Skill          string    `json:"skill"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Passed         bool      `json:"passed"`
	CertificateID  *string   `json:"certificateId"`
	CompletedAt    time.Time `json:"completedAt"`
	TimeTaken      int       `json:"timeTaken"`
}

type TestHistoryResponse struct {
	History []TestHistoryEntry `json:"history"`
}

type CertificateResponse struct {
	CertificateID string    `json:"certificateId"`
	UserName      string    `json:"userName"`
	Username      string    `json:"username"`
	Skill         string    `json:"skill"`
	Score         int       `json:"score"`
	CompletedAt   time.Time `json:"completedAt"`
	Verified      bool      `json:"verified"`
}
