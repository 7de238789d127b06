package repositories

import (
	"errors"
	"fmt"
	"time"

	"querydesk/config"

	"github.com/patrickmn/go-cache"
)

// TokenRepository tracks issued refresh tokens and revoked access tokens.
// Both live in an in-process TTL cache: a restart logs everyone out, which is
// the intended behavior for this memory-only service.
type TokenRepository interface {
	StoreRefreshToken(userID string, refreshToken string) error
	ValidateRefreshToken(userID string, refreshToken string) bool
	DeleteRefreshToken(userID string, refreshToken string) error
	BlacklistToken(token string, expiresAt time.Duration) error
	IsTokenBlacklisted(token string) bool
}

type tokenRepository struct {
	cache *cache.Cache
}

func NewTokenRepository() TokenRepository {
	return &tokenRepository{
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (r *tokenRepository) StoreRefreshToken(userID string, refreshToken string) error {
	key := fmt.Sprintf("refresh_token:%s:%s", userID, refreshToken)

	// Calculate expiration duration from milliseconds
	expirationDuration := time.Duration(config.Env.JWTRefreshExpirationMilliseconds) * time.Millisecond
	r.cache.Set(key, "valid", expirationDuration)
	return nil
}

func (r *tokenRepository) ValidateRefreshToken(userID string, refreshToken string) bool {
	key := fmt.Sprintf("refresh_token:%s:%s", userID, refreshToken)
	value, ok := r.cache.Get(key)
	return ok && value == "valid"
}

func (r *tokenRepository) DeleteRefreshToken(userID string, refreshToken string) error {
	key := fmt.Sprintf("refresh_token:%s:%s", userID, refreshToken)
	if _, ok := r.cache.Get(key); !ok {
		return errors.New("refresh token not found")
	}
	r.cache.Delete(key)
	return nil
}

func (r *tokenRepository) BlacklistToken(token string, expiresAt time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)
	r.cache.Set(key, "blacklisted", expiresAt)
	return nil
}

func (r *tokenRepository) IsTokenBlacklisted(token string) bool {
	key := fmt.Sprintf("blacklist:%s", token)
	value, ok := r.cache.Get(key)
	return ok && value == "blacklisted"
}
