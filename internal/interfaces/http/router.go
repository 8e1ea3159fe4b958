package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"lexid/internal/application/account/helpers"
	"lexid/internal/application/account/usecases"
	"lexid/internal/infrastructure/auth"
	"lexid/internal/infrastructure/config"
	"lexid/internal/infrastructure/ratelimit"
	"lexid/internal/infrastructure/repository"
	"lexid/internal/interfaces/http/handlers"
	"lexid/internal/interfaces/http/middleware"
	"lexid/internal/interfaces/http/routes"
	"lexid/internal/shared/logger"
)

// Router wires repositories, use cases, and handlers into a gin engine.
type Router struct {
	engine         *gin.Engine
	authHandler    *handlers.AuthHandler
	authMiddleware *middleware.AuthMiddleware
	rateLimit      gin.HandlerFunc
	cleanupUC      *usecases.CleanupExpiredUseCase
}

type jwtServiceAdapter struct {
	*auth.JWTService
}

func (a *jwtServiceAdapter) Generate(accountID uint, username, email, sessionID string) (*usecases.TokenPair, error) {
	pair, err := a.JWTService.Generate(accountID, username, email, sessionID)
	if err != nil {
		return nil, err
	}
	return &usecases.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func (a *jwtServiceAdapter) Verify(tokenString string, kind usecases.TokenKind) (*usecases.TokenClaims, error) {
	expected := auth.TokenTypeAccess
	if kind == usecases.TokenKindRefresh {
		expected = auth.TokenTypeRefresh
	}

	claims, err := a.JWTService.Verify(tokenString, expected)
	if err != nil {
		return nil, err
	}
	return &usecases.TokenClaims{
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Email:     claims.Email,
	}, nil
}

type oauthClientAdapter struct {
	client *auth.GoogleOAuthClient
}

func (a *oauthClientAdapter) AuthCodeURL(state string) string {
	return a.client.AuthCodeURL(state)
}

func (a *oauthClientAdapter) ExchangeCode(ctx context.Context, code string) (string, error) {
	return a.client.ExchangeCode(ctx, code)
}

func (a *oauthClientAdapter) GetUserInfo(ctx context.Context, accessToken string) (*usecases.OAuthUserInfo, error) {
	info, err := a.client.GetUserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return &usecases.OAuthUserInfo{
		ExternalID:  info.ExternalID,
		Username:    info.Username,
		Email:       info.Email,
		DisplayName: info.DisplayName,
		AvatarURL:   info.AvatarURL,
	}, nil
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	accountRepo := repository.NewAccountRepository(db, log)
	sessionRepo := repository.NewSessionRepository(db, log)
	stateRepo := repository.NewOAuthStateRepository(db, log)

	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	jwtSvc := auth.NewJWTService(
		cfg.Auth.JWT.Secret,
		cfg.Auth.JWT.Issuer,
		cfg.Auth.JWT.Audience,
		cfg.Auth.JWT.AccessExpMinutes,
		cfg.Auth.JWT.RefreshExpDays,
	)
	jwtService := &jwtServiceAdapter{jwtSvc}

	googleBase := auth.NewGoogleOAuthClient(auth.GoogleOAuthConfig{
		ClientID:     cfg.OAuth.Google.ClientID,
		ClientSecret: cfg.OAuth.Google.ClientSecret,
		RedirectURL:  cfg.OAuth.Google.RedirectURL,
	})
	googleClient := &oauthClientAdapter{googleBase}

	authHelper := helpers.NewAuthHelper(sessionRepo, log)

	registerUC := usecases.NewRegisterUseCase(accountRepo, hasher, jwtService, authHelper, cfg.Auth.JWT, log)
	loginUC := usecases.NewLoginUseCase(accountRepo, hasher, jwtService, authHelper, cfg.Auth.JWT, log)
	initiateOAuthUC := usecases.NewInitiateOAuthLoginUseCase(stateRepo, googleClient, cfg.Auth.State, log)
	handleOAuthUC := usecases.NewHandleOAuthCallbackUseCase(accountRepo, stateRepo, googleClient, jwtService, authHelper, cfg.Auth.JWT, log)
	refreshTokenUC := usecases.NewRefreshTokenUseCase(accountRepo, sessionRepo, jwtService, authHelper, cfg.Auth.JWT, log)
	logoutUC := usecases.NewLogoutUseCase(sessionRepo, authHelper, log)
	getAccountUC := usecases.NewGetAccountUseCase(accountRepo, log)
	cleanupUC := usecases.NewCleanupExpiredUseCase(sessionRepo, stateRepo, log)

	authHandler := handlers.NewAuthHandler(
		registerUC, loginUC, initiateOAuthUC, handleOAuthUC,
		refreshTokenUC, logoutUC, getAccountUC, log,
	)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, log)

	rateLimit := passThrough()
	if cfg.RateLimit.Enabled && redisClient != nil {
		limiter := ratelimit.NewRedisRateLimiter(redisClient)
		rateLimit = middleware.NewIPRateLimiter(limiter, ratelimit.LimitConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			RequestsPerHour:   cfg.RateLimit.RequestsPerHour,
		}, log).Limit()
	}

	return &Router{
		engine:         engine,
		authHandler:    authHandler,
		authMiddleware: authMiddleware,
		rateLimit:      rateLimit,
		cleanupUC:      cleanupUC,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(log logger.Interface) {
	r.engine.Use(middleware.Logger(log))
	r.engine.Use(middleware.Recovery(log))

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler:    r.authHandler,
		AuthMiddleware: r.authMiddleware,
		RateLimit:      r.rateLimit,
	})
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// CleanupUseCase exposes the expiry sweep for the background scheduler
func (r *Router) CleanupUseCase() *usecases.CleanupExpiredUseCase {
	return r.cleanupUC
}

func passThrough() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}
