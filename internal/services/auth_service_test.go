package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"skillswap_backend/internal/auth"
	"skillswap_backend/internal/repositories"
	"skillswap_backend/internal/services/dto"
	"skillswap_backend/internal/testutil"
	"skillswap_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedUsername = regexp.MustCompile(`^[a-z]+[0-9]{1,3}$`)

func newAuthServiceForTest() AuthService {
	return NewAuthService(repositories.NewUserRepository(), auth.NewTokenManager("auth-test-secret", time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := newAuthServiceForTest()

	profile, err := svc.Register(ctx, db, &dto.RegisterRequest{
		FName: "Ada", LName: "Lovelace", Email: "Ada@Example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, 100, profile.Tokens)
	assert.LessOrEqual(t, len(profile.Username), 15)
	assert.Regexp(t, generatedUsername, profile.Username)

	_, err = svc.Register(ctx, db, &dto.RegisterRequest{
		FName: "Ada", LName: "Again", Email: "ada@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	login, err := svc.Login(ctx, db, &dto.LoginRequest{Email: "ADA@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, profile.ID, login.User.ID)
	assert.EqualValues(t, 3600, login.ExpiresIn)

	claims, err := svc.VerifyToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims.UserID)
	assert.Equal(t, profile.Username, claims.Username)

	_, err = svc.Login(ctx, db, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = svc.Login(ctx, db, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRegister_PasswordLength(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newAuthServiceForTest()

	for _, pw := range []string{"short", "waytoolongpassword12"} {
		_, err := svc.Register(context.Background(), db, &dto.RegisterRequest{
			FName: "Ada", LName: "Lovelace", Email: "ada@example.com", Password: pw,
		})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok, pw)
		assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code, pw)
	}
}
