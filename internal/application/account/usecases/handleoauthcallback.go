package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"lexid/internal/application/account/helpers"
	"lexid/internal/domain/account"
	vo "lexid/internal/domain/account/valueobjects"
	"lexid/internal/shared/config"
	"lexid/internal/shared/constants"
	apperrors "lexid/internal/shared/errors"
	"lexid/internal/shared/logger"
)

// maxUsernameAttempts bounds the suffix retry loop. Hitting the bound
// fails the whole callback rather than looping.
const maxUsernameAttempts = 5

type HandleOAuthCallbackCommand struct {
	Code      string
	State     string
	IPAddress string
	UserAgent string
}

type HandleOAuthCallbackResult struct {
	Account      *account.Account
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	IsNewAccount bool
}

type HandleOAuthCallbackUseCase struct {
	accountRepo account.Repository
	stateRepo   account.StateRepository
	oauthClient OAuthClient
	jwtService  JWTService
	authHelper  *helpers.AuthHelper
	jwtConfig   config.JWTConfig
	logger      logger.Interface
}

func NewHandleOAuthCallbackUseCase(
	accountRepo account.Repository,
	stateRepo account.StateRepository,
	oauthClient OAuthClient,
	jwtService JWTService,
	authHelper *helpers.AuthHelper,
	jwtConfig config.JWTConfig,
	logger logger.Interface,
) *HandleOAuthCallbackUseCase {
	return &HandleOAuthCallbackUseCase{
		accountRepo: accountRepo,
		stateRepo:   stateRepo,
		oauthClient: oauthClient,
		jwtService:  jwtService,
		authHelper:  authHelper,
		jwtConfig:   jwtConfig,
		logger:      logger,
	}
}

// Execute completes the authorization-code flow. The state token is
// consumed before any provider round trip; a replayed or forged callback
// never reaches the exchange. Account resolution order: external id,
// then email (linking), then creation.
func (uc *HandleOAuthCallbackUseCase) Execute(ctx context.Context, cmd HandleOAuthCallbackCommand) (*HandleOAuthCallbackResult, error) {
	if err := uc.stateRepo.Consume(ctx, cmd.State); err != nil {
		uc.logger.Warnw("oauth state rejected", "error", err, "ip", cmd.IPAddress)
		return nil, err
	}

	providerToken, err := uc.oauthClient.ExchangeCode(ctx, cmd.Code)
	if err != nil {
		uc.logger.Errorw("failed to exchange authorization code", "error", err)
		return nil, apperrors.NewOAuthError("google", "exchange", string(constants.OAuthErrorExchangeFailed))
	}

	userInfo, err := uc.oauthClient.GetUserInfo(ctx, providerToken)
	if err != nil {
		uc.logger.Errorw("failed to get provider user info", "error", err)
		return nil, apperrors.NewOAuthError("google", "userinfo", string(constants.OAuthErrorUserInfoFailed))
	}

	existing, isNewAccount, err := uc.resolveAccount(ctx, userInfo)
	if err != nil {
		return nil, err
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

	uc.logger.Infow("oauth login successful",
		"account_id", existing.ID(),
		"is_new_account", isNewAccount,
	)

	return &HandleOAuthCallbackResult{
		Account:      existing,
		AccessToken:  sessionWithTokens.AccessToken,
		RefreshToken: sessionWithTokens.RefreshToken,
		ExpiresIn:    sessionWithTokens.ExpiresIn,
		IsNewAccount: isNewAccount,
	}, nil
}

func (uc *HandleOAuthCallbackUseCase) resolveAccount(ctx context.Context, userInfo *OAuthUserInfo) (*account.Account, bool, error) {
	existing, err := uc.accountRepo.GetByExternalID(ctx, userInfo.ExternalID)
	if err != nil {
		uc.logger.Errorw("failed to get account by external id", "error", err)
		return nil, false, fmt.Errorf("failed to get account: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	// Linking path: an account registered locally with the same email
	// gains the external id and keeps its password.
	existing, err = uc.accountRepo.GetByEmail(ctx, userInfo.Email)
	if err != nil {
		uc.logger.Errorw("failed to get account by email", "error", err)
		return nil, false, fmt.Errorf("failed to get account: %w", err)
	}
	if existing != nil {
		if err := existing.LinkExternalID(userInfo.ExternalID); err != nil {
			uc.logger.Errorw("failed to link external id", "error", err, "account_id", existing.ID())
			return nil, false, fmt.Errorf("failed to link external identity: %w", err)
		}
		if err := uc.accountRepo.Update(ctx, existing); err != nil {
			uc.logger.Errorw("failed to persist linked external id", "error", err, "account_id", existing.ID())
			return nil, false, err
		}
		uc.logger.Infow("external identity linked to existing account", "account_id", existing.ID())
		return existing, false, nil
	}

	created, err := uc.createAccount(ctx, userInfo)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// createAccount creates a fresh OAuth-only account. Username conflicts
// are resolved by appending a numeric suffix derived from the external
// id, bounded to maxUsernameAttempts before failing loudly.
func (uc *HandleOAuthCallbackUseCase) createAccount(ctx context.Context, userInfo *OAuthUserInfo) (*account.Account, error) {
	email, err := vo.NewEmail(userInfo.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid provider email: %w", err)
	}

	displayName, err := vo.NewDisplayName(userInfo.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("invalid provider display name: %w", err)
	}
	// provider casing is unreliable; store the name in title case
	if !displayName.IsEmpty() {
		if displayName, err = vo.NewDisplayName(displayName.Title()); err != nil {
			return nil, fmt.Errorf("invalid provider display name: %w", err)
		}
	}

	base := sanitizeUsername(userInfo.Username, userInfo.Email)
	suffix := usernameSuffixSeed(userInfo.ExternalID)

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s%d", base, suffix+uint32(attempt)-1)
		}

		username, err := vo.NewUsername(candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to derive username: %w", err)
		}

		newAccount, err := account.NewExternalAccount(username, email, userInfo.ExternalID, displayName, userInfo.AvatarURL)
		if err != nil {
			uc.logger.Errorw("failed to create account aggregate", "error", err)
			return nil, fmt.Errorf("failed to create account: %w", err)
		}

		err = uc.accountRepo.Create(ctx, newAccount)
		if err == nil {
			uc.logger.Infow("oauth account created",
				"account_id", newAccount.ID(),
				"username", candidate,
				"attempts", attempt+1,
			)
			return newAccount, nil
		}

		if account.IsConflict(err, account.ConflictUsernameTaken) {
			continue
		}
		return nil, err
	}

	uc.logger.Errorw("exhausted username candidates for oauth account",
		"base", base,
		"attempts", maxUsernameAttempts,
	)
	return nil, apperrors.NewConflictError("could not allocate a unique username")
}

// usernameSuffixSeed derives a stable numeric disambiguator from the
// provider id so retries for the same identity walk the same candidates.
func usernameSuffixSeed(externalID string) uint32 {
	sum := sha256.Sum256([]byte(externalID))
	return binary.BigEndian.Uint32(sum[:4]) % 10000
}

// sanitizeUsername reduces a provider-supplied name to the allowed
// username alphabet, falling back to the email local part.
func sanitizeUsername(name, email string) string {
	cleaned := filterUsernameChars(name)
	if len(cleaned) < 3 {
		local := email
		for i, r := range email {
			if r == '@' {
				local = email[:i]
				break
			}
		}
		cleaned = filterUsernameChars(local)
	}
	if len(cleaned) < 3 {
		cleaned = "player"
	}
	if len(cleaned) > 24 {
		// leave room for a numeric suffix within the 30 char limit
		cleaned = cleaned[:24]
	}
	return cleaned
}

func filterUsernameChars(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		}
	}
	return string(out)
}
