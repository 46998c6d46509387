package skilltest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSession  = errors.New("invalid test session")
	ErrSessionExpired  = errors.New("test session expired")
	ErrSessionConsumed = errors.New("test session already submitted")
)

// SessionStore turns a session into the opaque testSessionId handed to the client and back.
type SessionStore interface {
	// Issue returns the token for s.
	Issue(ctx context.Context, s *Session) (string, error)
	// Open decodes a token without consuming it.
	Open(ctx context.Context, token string) (*Session, error)
	// Consume marks the session as used. Stores that track sessions fail with
	// ErrSessionConsumed on the second call.
	Consume(ctx context.Context, s *Session) error
}

// SessionAudience scopes session tokens so they are never accepted as access tokens.
const SessionAudience = "skill-test"

type sessionClaims struct {
	Skill       string `json:"skill"`
	StartTime   int64  `json:"startTime"` // unix millis
	QuestionIDs []int  `json:"questionIds"`
	jwt.RegisteredClaims
}

// SignedCodec keeps the session in an HS256 JWT. The token names the selected bank
// questions by ID and Open resolves them against the bank, so the answer key never
// leaves the server. Consume is a no-op; replay protection is left to the result table.
type SignedCodec struct {
	secret []byte
	bank   *Bank
	grace  time.Duration
	now    func() time.Time
}

func NewSignedCodec(secret string, bank *Bank, grace time.Duration) *SignedCodec {
	return &SignedCodec{secret: []byte(secret), bank: bank, grace: grace, now: time.Now}
}

func (c *SignedCodec) WithClock(now func() time.Time) *SignedCodec {
	c.now = now
	return c
}

func (c *SignedCodec) Issue(_ context.Context, s *Session) (string, error) {
	ids := make([]int, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	claims := sessionClaims{
		Skill:       s.Skill,
		StartTime:   s.StartTime.UnixMilli(),
		QuestionIDs: ids,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Audience:  jwt.ClaimStrings{SessionAudience},
			IssuedAt:  jwt.NewNumericDate(s.StartTime),
			ExpiresAt: jwt.NewNumericDate(Deadline(s, c.grace)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign test session: %w", err)
	}
	return token, nil
}

func (c *SignedCodec) Open(_ context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(SessionAudience),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidSession
	}
	if !parsed.Valid || claims.ID == "" || claims.Skill == "" || len(claims.QuestionIDs) == 0 {
		return nil, ErrInvalidSession
	}

	questions := make([]Question, len(claims.QuestionIDs))
	for i, id := range claims.QuestionIDs {
		q, err := c.bank.Question(claims.Skill, id)
		if err != nil {
			return nil, ErrInvalidSession
		}
		questions[i] = q
	}
	return &Session{
		ID:        claims.ID,
		Skill:     claims.Skill,
		StartTime: time.UnixMilli(claims.StartTime).UTC(),
		Questions: questions,
	}, nil
}

func (c *SignedCodec) Consume(context.Context, *Session) error {
	return nil
}
