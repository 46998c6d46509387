package auth

import (
	"context"
	"testing"
	"time"

	"skillswap_backend/internal/skilltest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret12")
	require.NoError(t, err)

	assert.NotEqual(t, "secret12", hash)
	assert.True(t, CheckPasswordHash("secret12", hash))
	assert.False(t, CheckPasswordHash("secret13", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("short"), ErrPasswordLength)
	assert.NoError(t, ValidatePassword("1234567"))
	assert.NoError(t, ValidatePassword("1234567890123456789"))
	assert.ErrorIs(t, ValidatePassword("12345678901234567890"), ErrPasswordLength)
}

func TestTokenManager(t *testing.T) {
	m := NewTokenManager("jwt-secret", time.Hour)

	token, err := m.GenerateToken("user-1", "alice")
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, err = NewTokenManager("other", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewTokenManager("jwt-secret", -time.Minute).GenerateToken("user-1", "alice")
	require.NoError(t, err)
	_, err = m.ParseToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RequiresAccessAudience(t *testing.T) {
	const secret = "shared-secret"
	m := NewTokenManager(secret, time.Hour)
	sign := func(aud ...string) string {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
			UserID:           "user-1",
			Username:         "alice",
		}
		if len(aud) > 0 {
			claims.Audience = aud
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}

	_, err := m.ParseToken(sign())
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.ParseToken(sign(skilltest.SessionAudience))
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.ParseToken(sign(AccessAudience))
	assert.NoError(t, err)

	bank, err := skilltest.DefaultBank()
	require.NoError(t, err)
	session, err := skilltest.NewEngine(bank, nil).Start(bank.Skills()[0])
	require.NoError(t, err)
	sessionToken, err := skilltest.NewSignedCodec(secret, bank, time.Minute).Issue(context.Background(), session)
	require.NoError(t, err)
	_, err = m.ParseToken(sessionToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, err := m.GenerateToken("user-1", "alice")
	require.NoError(t, err)
	_, err = skilltest.NewSignedCodec(secret, bank, time.Minute).Open(context.Background(), access)
	assert.ErrorIs(t, err, skilltest.ErrInvalidSession)
}
