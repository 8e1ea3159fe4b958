package usecases

import (
	"context"
	"fmt"
	"time"

	"lexid/internal/application/account/helpers"
	"lexid/internal/domain/account"
	"lexid/internal/shared/config"
	apperrors "lexid/internal/shared/errors"
	"lexid/internal/shared/logger"
)

type LoginCommand struct {
	Username  string
	Password  string
	IPAddress string
	UserAgent string
}

type LoginResult struct {
	Account      *account.Account
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type LoginUseCase struct {
	accountRepo    account.Repository
	passwordHasher account.PasswordHasher
	jwtService     JWTService
	authHelper     *helpers.AuthHelper
	jwtConfig      config.JWTConfig
	logger         logger.Interface
}

func NewLoginUseCase(
	accountRepo account.Repository,
	hasher account.PasswordHasher,
	jwtService JWTService,
	authHelper *helpers.AuthHelper,
	jwtConfig config.JWTConfig,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		accountRepo:    accountRepo,
		passwordHasher: hasher,
		jwtService:     jwtService,
		authHelper:     authHelper,
		jwtConfig:      jwtConfig,
		logger:         logger,
	}
}

// Execute authenticates with username and password. Unknown usernames,
// deactivated accounts, and wrong passwords all surface the same generic
// error; only the OAuth-only case is distinguishable, since no password
// comparison happened there.
func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	existing, err := uc.accountRepo.GetByUsername(ctx, cmd.Username)
	if err != nil {
		uc.logger.Errorw("failed to get account by username", "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if existing == nil {
		return nil, apperrors.NewInvalidCredentialsError()
	}

	if !existing.HasPassword() {
		return nil, apperrors.NewPasswordNotSetError()
	}

	if err := existing.VerifyPassword(cmd.Password, uc.passwordHasher); err != nil {
		uc.logger.Warnw("failed login attempt",
			"account_id", existing.ID(),
			"ip", cmd.IPAddress,
		)
		return nil, apperrors.NewInvalidCredentialsError()
	}

	sessionTTL := time.Duration(uc.jwtConfig.RefreshExpDays) * 24 * time.Hour
	sessionWithTokens, err := uc.authHelper.CreateAndSaveSessionWithTokens(
		ctx,
		existing.ID(),
		cmd.IPAddress,
		cmd.UserAgent,
		sessionTTL,
		func(sessionID string) (string, string, int64, error) {
			tokens, err := uc.jwtService.Generate(existing.ID(), existing.Username().String(), existing.Email().String(), sessionID)
			if err != nil {
				return "", "", 0, err
			}
			return tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn, nil
		},
	)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("account logged in successfully",
		"account_id", existing.ID(),
		"session_id", sessionWithTokens.Session.ID,
	)

	return &LoginResult{
		Account:      existing,
		AccessToken:  sessionWithTokens.AccessToken,
		RefreshToken: sessionWithTokens.RefreshToken,
		ExpiresIn:    sessionWithTokens.ExpiresIn,
	}, nil
}
