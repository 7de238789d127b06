package services

import (
	"net/http"
	"testing"
	"time"

	"querydesk/config"
	"querydesk/internal/apis/dtos"
	"querydesk/internal/repositories"
	"querydesk/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) (AuthService, repositories.TokenRepository) {
	t.Helper()
	config.Env = config.Environment{
		AdminUser:                        "admin",
		AdminPassword:                    "correct-horse",
		JWTSecret:                        "test-secret",
		JWTExpirationMilliseconds:        int(time.Hour / time.Millisecond),
		JWTRefreshExpirationMilliseconds: int(24 * time.Hour / time.Millisecond),
	}

	jwtService := utils.NewJWTService(config.Env.JWTSecret, time.Hour, 24*time.Hour)
	tokenRepo := repositories.NewTokenRepository()

	service, err := NewAuthService(jwtService, tokenRepo)
	require.NoError(t, err)
	return service, tokenRepo
}

func TestLoginWithAdminCredentials(t *testing.T) {
	service, _ := newTestAuthService(t)

	resp, statusCode, err := service.Login(&dtos.LoginRequest{Username: "admin", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), statusCode)
	assert.Equal(t, "admin", resp.Username)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"unknown user", "intruder", "correct-horse"},
		{"both wrong", "intruder", "wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, statusCode, err := service.Login(&dtos.LoginRequest{Username: tt.username, Password: tt.password})
			require.Error(t, err)
			assert.Equal(t, uint(http.StatusUnauthorized), statusCode)
		})
	}
}

func TestRefreshTokenIssuesNewAccessToken(t *testing.T) {
	service, _ := newTestAuthService(t)

	login, _, err := service.Login(&dtos.LoginRequest{Username: "admin", Password: "correct-horse"})
	require.NoError(t, err)

	resp, statusCode, err := service.RefreshToken(login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), statusCode)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefreshTokenRejectsUnknownToken(t *testing.T) {
	service, _ := newTestAuthService(t)

	jwtService := utils.NewJWTService(config.Env.JWTSecret, time.Hour, 24*time.Hour)
	stray, err := jwtService.GenerateRefreshToken("admin")
	require.NoError(t, err)

	// Valid signature, but never issued through login.
	_, statusCode, refreshErr := service.RefreshToken(*stray)
	require.Error(t, refreshErr)
	assert.Equal(t, uint(http.StatusUnauthorized), statusCode)
}

func TestLogoutRevokesTokens(t *testing.T) {
	service, tokenRepo := newTestAuthService(t)

	login, _, err := service.Login(&dtos.LoginRequest{Username: "admin", Password: "correct-horse"})
	require.NoError(t, err)

	statusCode, err := service.Logout(login.RefreshToken, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(http.StatusOK), statusCode)

	assert.True(t, tokenRepo.IsTokenBlacklisted(login.AccessToken))

	_, statusCode, err = service.RefreshToken(login.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, uint(http.StatusUnauthorized), statusCode)
}
