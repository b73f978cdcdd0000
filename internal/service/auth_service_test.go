package service

import (
	"testing"
	"time"

	"github.com/rtuhub/sgpa-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authConfig(t *testing.T, password string, expiry time.Duration) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &config.Config{
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
		JWTExpiry:         expiry,
	}
}

func TestLoginAndVerify(t *testing.T) {
	svc := NewAuthService(authConfig(t, "correct horse battery", time.Hour))

	token, err := svc.Login("correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, svc.VerifyToken(token))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(authConfig(t, "correct horse battery", time.Hour))

	_, err := svc.Login("wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWithoutConfiguredHash(t *testing.T) {
	svc := NewAuthService(&config.Config{JWTSecret: "test-secret"})

	_, err := svc.Login("anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyGarbageToken(t *testing.T) {
	svc := NewAuthService(authConfig(t, "correct horse battery", time.Hour))

	assert.ErrorIs(t, svc.VerifyToken("not.a.jwt"), ErrTokenInvalid)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewAuthService(authConfig(t, "correct horse battery", -time.Hour))

	token, err := svc.Login("correct horse battery")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.VerifyToken(token), ErrTokenExpired)
}
