package services

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"querydesk/config"
	"querydesk/internal/apis/dtos"
	"querydesk/internal/repositories"
	"querydesk/internal/utils"
)

type AuthService interface {
	Login(req *dtos.LoginRequest) (*dtos.AuthResponse, uint, error)
	RefreshToken(refreshToken string) (*dtos.RefreshTokenResponse, uint, error)
	Logout(refreshToken string, accessToken string) (uint, error)
}

// authService authenticates against the single admin credential pair from the
// environment. The password is bcrypt-hashed once at startup so login compares
// hashes rather than plaintext.
type authService struct {
	adminUser         string
	adminPasswordHash string
	jwtService        utils.JWTService
	tokenRepo         repositories.TokenRepository
}

func NewAuthService(jwtService utils.JWTService, tokenRepo repositories.TokenRepository) (AuthService, error) {
	hash, err := utils.HashPassword(config.Env.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &authService{
		adminUser:         config.Env.AdminUser,
		adminPasswordHash: hash,
		jwtService:        jwtService,
		tokenRepo:         tokenRepo,
	}, nil
}

func (s *authService) Login(req *dtos.LoginRequest) (*dtos.AuthResponse, uint, error) {
	if req.Username != s.adminUser {
		return nil, http.StatusUnauthorized, errors.New("invalid credentials")
	}
	if !utils.CheckPasswordHash(req.Password, s.adminPasswordHash) {
		return nil, http.StatusUnauthorized, errors.New("invalid credentials")
	}

	accessToken, err := s.jwtService.GenerateToken(req.Username)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(req.Username)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	if err := s.tokenRepo.StoreRefreshToken(req.Username, *refreshToken); err != nil {
		return nil, http.StatusInternalServerError, err
	}

	log.Printf("User %s logged in", req.Username)
	return &dtos.AuthResponse{
		AccessToken:  *accessToken,
		RefreshToken: *refreshToken,
		Username:     req.Username,
	}, http.StatusOK, nil
}

func (s *authService) RefreshToken(refreshToken string) (*dtos.RefreshTokenResponse, uint, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, http.StatusUnauthorized, fmt.Errorf("invalid refresh token")
	}

	if !s.tokenRepo.ValidateRefreshToken(*claims, refreshToken) {
		return nil, http.StatusUnauthorized, fmt.Errorf("refresh token not found")
	}

	accessToken, err := s.jwtService.GenerateToken(*claims)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return &dtos.RefreshTokenResponse{
		AccessToken: *accessToken,
	}, http.StatusOK, nil
}

func (s *authService) Logout(refreshToken string, accessToken string) (uint, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return http.StatusUnauthorized, fmt.Errorf("invalid refresh token")
	}

	if err := s.tokenRepo.DeleteRefreshToken(*claims, refreshToken); err != nil {
		return http.StatusInternalServerError, err
	}

	// Blacklist the access token until its original expiration
	if _, err := s.jwtService.ValidateToken(accessToken); err != nil {
		return http.StatusUnauthorized, fmt.Errorf("invalid access token")
	}

	blacklistFor := time.Duration(config.Env.JWTExpirationMilliseconds) * time.Millisecond
	if err := s.tokenRepo.BlacklistToken(accessToken, blacklistFor); err != nil {
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}
