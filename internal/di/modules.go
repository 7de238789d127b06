package di

import (
	"log"
	"time"

	"querydesk/config"
	"querydesk/internal/apis/handlers"
	"querydesk/internal/repositories"
	"querydesk/internal/services"
	"querydesk/internal/utils"
	"querydesk/pkg/queryservice"

	"go.uber.org/dig"
)

var DiContainer *dig.Container

func Initialize() {
	DiContainer = dig.New()

	jwtService := utils.NewJWTService(
		config.Env.JWTSecret,
		time.Millisecond*time.Duration(config.Env.JWTExpirationMilliseconds),
		time.Millisecond*time.Duration(config.Env.JWTRefreshExpirationMilliseconds),
	)

	tokenRepo := repositories.NewTokenRepository()
	sessionRepo := repositories.NewSessionRepository(time.Duration(config.Env.SessionTTLMinutes) * time.Minute)

	queryClient := queryservice.NewClient(queryservice.Config{
		BaseURL: config.Env.QueryServiceURL,
		Timeout: time.Duration(config.Env.QueryServiceTimeoutMs) * time.Millisecond,
		APIKey:  config.Env.QueryServiceAPIKey,
	})

	// Provide all dependencies to the container
	if err := DiContainer.Provide(func() utils.JWTService { return jwtService }); err != nil {
		log.Fatalf("Failed to provide JWT service: %v", err)
	}

	if err := DiContainer.Provide(func() repositories.TokenRepository { return tokenRepo }); err != nil {
		log.Fatalf("Failed to provide token repository: %v", err)
	}

	if err := DiContainer.Provide(func() repositories.SessionRepository { return sessionRepo }); err != nil {
		log.Fatalf("Failed to provide session repository: %v", err)
	}

	if err := DiContainer.Provide(func() services.QueryGateway { return queryClient }); err != nil {
		log.Fatalf("Failed to provide query service client: %v", err)
	}

	// Provide services
	if err := DiContainer.Provide(func(jwt utils.JWTService, tokenRepo repositories.TokenRepository) (services.AuthService, error) {
		return services.NewAuthService(jwt, tokenRepo)
	}); err != nil {
		log.Fatalf("Failed to provide auth service: %v", err)
	}

	if err := DiContainer.Provide(func(sessionRepo repositories.SessionRepository, gateway services.QueryGateway) services.AssistantService {
		return services.NewAssistantService(sessionRepo, gateway)
	}); err != nil {
		log.Fatalf("Failed to provide assistant service: %v", err)
	}

	// Provide handlers
	if err := DiContainer.Provide(func(authService services.AuthService) *handlers.AuthHandler {
		return handlers.NewAuthHandler(authService)
	}); err != nil {
		log.Fatalf("Failed to provide auth handler: %v", err)
	}

	if err := DiContainer.Provide(func(assistantService services.AssistantService) *handlers.SessionHandler {
		return handlers.NewSessionHandler(assistantService)
	}); err != nil {
		log.Fatalf("Failed to provide session handler: %v", err)
	}
}

// GetAuthHandler retrieves the AuthHandler from the DI container
func GetAuthHandler() (*handlers.AuthHandler, error) {
	var handler *handlers.AuthHandler
	err := DiContainer.Invoke(func(h *handlers.AuthHandler) {
		handler = h
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}

// GetSessionHandler retrieves the SessionHandler from the DI container
func GetSessionHandler() (*handlers.SessionHandler, error) {
	var handler *handlers.SessionHandler
	err := DiContainer.Invoke(func(h *handlers.SessionHandler) {
		handler = h
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}
