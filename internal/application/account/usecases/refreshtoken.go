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

type RefreshTokenCommand struct {
	RefreshToken string
	IPAddress    string
	UserAgent    string
}

type RefreshTokenResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type RefreshTokenUseCase struct {
	accountRepo account.Repository
	sessionRepo account.SessionRepository
	jwtService  JWTService
	authHelper  *helpers.AuthHelper
	jwtConfig   config.JWTConfig
	logger      logger.Interface
}

func NewRefreshTokenUseCase(
	accountRepo account.Repository,
	sessionRepo account.SessionRepository,
	jwtService JWTService,
	authHelper *helpers.AuthHelper,
	jwtConfig config.JWTConfig,
	logger logger.Interface,
) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		jwtService:  jwtService,
		authHelper:  authHelper,
		jwtConfig:   jwtConfig,
		logger:      logger,
	}
}

// Execute rotates a refresh token. The old session row is deleted before
// the replacement pair is minted; when two requests race on the same
// token, the loser's delete hits zero rows and fails, so exactly one new
// pair exists afterwards.
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, cmd RefreshTokenCommand) (*RefreshTokenResult, error) {
	claims, err := uc.jwtService.Verify(cmd.RefreshToken, TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	tokenHash := uc.authHelper.HashToken(cmd.RefreshToken)

	session, err := uc.sessionRepo.GetByRefreshTokenHash(ctx, tokenHash)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			// covers expired, revoked, rotated-away, and well-signed
			// tokens that were never issued by us
			return nil, apperrors.NewSessionExpiredError()
		}
		uc.logger.Errorw("failed to get session", "error", err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	existing, err := uc.accountRepo.GetByID(ctx, session.AccountID)
	if err != nil {
		uc.logger.Errorw("failed to get account", "error", err, "account_id", session.AccountID)
		return nil, fmt.Errorf("failed to validate account: %w", err)
	}
	if existing == nil {
		// logged precisely, surfaced as the same coarse failure as any
		// other dead refresh token
		uc.logger.Warnw("account missing or inactive during token refresh", "account_id", session.AccountID)
		return nil, apperrors.NewSessionExpiredError()
	}

	if err := uc.sessionRepo.Delete(ctx, session.ID); err != nil {
		if apperrors.IsNotFoundError(err) {
			// a concurrent refresh with the same token already rotated it
			uc.logger.Warnw("refresh token reuse detected",
				"account_id", session.AccountID,
				"session_id", session.ID,
			)
			return nil, apperrors.NewSessionExpiredError()
		}
		uc.logger.Errorw("failed to delete rotated session", "error", err)
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}

	sessionTTL := time.Duration(uc.jwtConfig.RefreshExpDays) * 24 * time.Hour
	sessionWithTokens, err := uc.authHelper.CreateAndSaveSessionWithTokens(
		ctx,
		existing.ID(),
		cmd.IPAddress,
		cmd.UserAgent,
		sessionTTL,
		func(sessionID string) (string, string, int64, error) {
			tokens, err := uc.jwtService.Generate(claims.AccountID, existing.Username().String(), existing.Email().String(), sessionID)
			if err != nil {
				return "", "", 0, err
			}
			return tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn, nil
		},
	)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("token refreshed successfully",
		"account_id", existing.ID(),
		"session_id", sessionWithTokens.Session.ID,
	)

	return &RefreshTokenResult{
		AccessToken:  sessionWithTokens.AccessToken,
		RefreshToken: sessionWithTokens.RefreshToken,
		ExpiresIn:    sessionWithTokens.ExpiresIn,
	}, nil
}
