package usecases

import (
	"context"
	"fmt"
	"time"

	"lexid/internal/application/account/helpers"
	"lexid/internal/domain/account"
	vo "lexid/internal/domain/account/valueobjects"
	"lexid/internal/shared/config"
	apperrors "lexid/internal/shared/errors"
	"lexid/internal/shared/logger"
)

type RegisterCommand struct {
	Username  string
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

type RegisterResult struct {
	Account      *account.Account
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type RegisterUseCase struct {
	accountRepo    account.Repository
	passwordHasher account.PasswordHasher
	jwtService     JWTService
	authHelper     *helpers.AuthHelper
	jwtConfig      config.JWTConfig
	logger         logger.Interface
}

func NewRegisterUseCase(
	accountRepo account.Repository,
	hasher account.PasswordHasher,
	jwtService JWTService,
	authHelper *helpers.AuthHelper,
	jwtConfig config.JWTConfig,
	logger logger.Interface,
) *RegisterUseCase {
	return &RegisterUseCase{
		accountRepo:    accountRepo,
		passwordHasher: hasher,
		jwtService:     jwtService,
		authHelper:     authHelper,
		jwtConfig:      jwtConfig,
		logger:         logger,
	}
}

// Execute registers a local account. Validation fails fast before any
// store access; the unique indexes remain the final arbiter when two
// registrations race past the existence checks.
func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*RegisterResult, error) {
	username, err := vo.NewUsername(cmd.Username)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	password, err := vo.NewPassword(cmd.Password)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	exists, err := uc.accountRepo.ExistsByUsername(ctx, username.String())
	if err != nil {
		uc.logger.Errorw("failed to check username existence", "error", err)
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		return nil, account.NewUsernameTakenError()
	}

	exists, err = uc.accountRepo.ExistsByEmail(ctx, email.String())
	if err != nil {
		uc.logger.Errorw("failed to check email existence", "error", err)
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, account.NewEmailTakenError()
	}

	passwordHash, err := uc.passwordHasher.Hash(password.Value())
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newAccount, err := account.NewLocalAccount(username, email, passwordHash)
	if err != nil {
		uc.logger.Errorw("failed to create account aggregate", "error", err)
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if err := uc.accountRepo.Create(ctx, newAccount); err != nil {
		return nil, err
	}

	sessionTTL := time.Duration(uc.jwtConfig.RefreshExpDays) * 24 * time.Hour
	sessionWithTokens, err := uc.authHelper.CreateAndSaveSessionWithTokens(
		ctx,
		newAccount.ID(),
		cmd.IPAddress,
		cmd.UserAgent,
		sessionTTL,
		func(sessionID string) (string, string, int64, error) {
			tokens, err := uc.jwtService.Generate(newAccount.ID(), username.String(), email.String(), sessionID)
			if err != nil {
				return "", "", 0, err
			}
			return tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn, nil
		},
	)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("account registered successfully",
		"account_id", newAccount.ID(),
		"username", username.String(),
	)

	return &RegisterResult{
		Account:      newAccount,
		AccessToken:  sessionWithTokens.AccessToken,
		RefreshToken: sessionWithTokens.RefreshToken,
		ExpiresIn:    sessionWithTokens.ExpiresIn,
	}, nil
}
