package skilltest

import (
	"crypto/rand"
	"encoding/hex"
	"math"
	mrand "math/rand"
	"sync"
	"time"
)

// Session is an attempt in progress. Questions keep their answers; only the server reads them.
type Session struct {
	ID        string     `json:"id"`
	Skill     string     `json:"skill"`
	StartTime time.Time  `json:"startTime"`
	Questions []Question `json:"questions"`
}

// ClientQuestion is what a test taker sees.
type ClientQuestion struct {
	ID         int      `json:"id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
}

type QuestionResult struct {
	QuestionID    int      `json:"questionId"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	UserAnswer    *int     `json:"userAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
	Difficulty    string   `json:"difficulty"`
}

type Grade struct {
	Score   int
	Correct int
	Total   int
	Passed  bool
	Results []QuestionResult
}

// Engine selects questions and opens sessions. It is safe for concurrent use.
type Engine struct {
	bank *Bank
	now  func() time.Time

	mu  sync.Mutex
	rng *mrand.Rand
}

// NewEngine uses rng for selection; nil seeds one from the clock.
func NewEngine(bank *Bank, rng *mrand.Rand) *Engine {
	if rng == nil {
		rng = mrand.New(mrand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{bank: bank, rng: rng, now: time.Now}
}

// WithClock replaces the engine's time source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) Bank() *Bank {
	return e.bank
}

// Select shuffles the skill's questions and keeps the first QuestionsPerTest.
func (e *Engine) Select(skill string) ([]Question, error) {
	qs, err := e.bank.Questions(skill)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	e.mu.Unlock()

	if len(qs) > QuestionsPerTest {
		qs = qs[:QuestionsPerTest]
	}
	return qs, nil
}

// Start selects questions for skill and opens a session stamped with the current time.
func (e *Engine) Start(skill string) (*Session, error) {
	qs, err := e.Select(skill)
	if err != nil {
		return nil, err
	}
	id, err := randomHex(16)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        id,
		Skill:     skill,
		StartTime: e.now().UTC(),
		Questions: qs,
	}, nil
}

// Deadline is the last instant a submission for s is accepted.
func Deadline(s *Session, grace time.Duration) time.Time {
	return s.StartTime.Add(TimeLimitSeconds*time.Second + grace)
}

// ClientQuestions strips answers. IDs follow selection order.
func ClientQuestions(qs []Question) []ClientQuestion {
	out := make([]ClientQuestion, len(qs))
	for i, q := range qs {
		out[i] = ClientQuestion{ID: i, Question: q.Text, Options: q.Options, Difficulty: q.Difficulty}
	}
	return out
}

// GradeSession compares answers with the session's answer key. A nil, negative or missing
// answer counts as unanswered.
func GradeSession(s *Session, answers []*int) Grade {
	g := Grade{Total: len(s.Questions), Results: make([]QuestionResult, len(s.Questions))}
	for i, q := range s.Questions {
		var given *int
		if i < len(answers) && answers[i] != nil && *answers[i] >= 0 {
			v := *answers[i]
			given = &v
		}
		ok := given != nil && *given == q.Answer
		if ok {
			g.Correct++
		}
		g.Results[i] = QuestionResult{
			QuestionID:    i,
			Question:      q.Text,
			Options:       q.Options,
			CorrectAnswer: q.Answer,
			UserAnswer:    given,
			IsCorrect:     ok,
			Difficulty:    q.Difficulty,
		}
	}
	g.Score = Score(g.Correct, g.Total)
	g.Passed = g.Score >= PassingScore
	return g
}

// Score is the rounded percentage of correct answers.
func Score(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// NewCertificateID returns 16 random bytes as 32 lowercase hex characters.
func NewCertificateID() (string, error) {
	return randomHex(16)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
