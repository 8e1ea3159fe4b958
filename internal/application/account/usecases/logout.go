package usecases

import (
	"context"

	"lexid/internal/application/account/helpers"
	"lexid/internal/domain/account"
	"lexid/internal/shared/logger"
)

type LogoutCommand struct {
	RefreshToken string
}

type LogoutUseCase struct {
	sessionRepo account.SessionRepository
	authHelper  *helpers.AuthHelper
	logger      logger.Interface
}

func NewLogoutUseCase(
	sessionRepo account.SessionRepository,
	authHelper *helpers.AuthHelper,
	logger logger.Interface,
) *LogoutUseCase {
	return &LogoutUseCase{
		sessionRepo: sessionRepo,
		authHelper:  authHelper,
		logger:      logger,
	}
}

// Execute revokes the session backing the refresh token. An empty,
// malformed, or already-revoked token is a no-op; logout never fails for
// the caller.
func (uc *LogoutUseCase) Execute(ctx context.Context, cmd LogoutCommand) error {
	if cmd.RefreshToken == "" {
		return nil
	}

	tokenHash := uc.authHelper.HashToken(cmd.RefreshToken)

	if err := uc.sessionRepo.DeleteByRefreshTokenHash(ctx, tokenHash); err != nil {
		// store failure only; the caller still ends up logged out client-side
		uc.logger.Errorw("failed to delete session on logout", "error", err)
		return err
	}

	uc.logger.Debugw("logout processed")
	return nil
}
