package usecases

import (
	"context"
	"fmt"
	"time"

	"lexid/internal/domain/account"
	"lexid/internal/shared/config"
	"lexid/internal/shared/logger"
)

type InitiateOAuthLoginResult struct {
	AuthorizationURL string
	State            string
}

type InitiateOAuthLoginUseCase struct {
	stateRepo   account.StateRepository
	oauthClient OAuthClient
	stateConfig config.StateConfig
	logger      logger.Interface
}

func NewInitiateOAuthLoginUseCase(
	stateRepo account.StateRepository,
	oauthClient OAuthClient,
	stateConfig config.StateConfig,
	logger logger.Interface,
) *InitiateOAuthLoginUseCase {
	return &InitiateOAuthLoginUseCase{
		stateRepo:   stateRepo,
		oauthClient: oauthClient,
		stateConfig: stateConfig,
		logger:      logger,
	}
}

// Execute issues a CSRF state token and builds the provider
// authorization URL. The state is persisted before the URL leaves the
// process so a restart between redirect and callback does not strand
// the login.
func (uc *InitiateOAuthLoginUseCase) Execute(ctx context.Context) (*InitiateOAuthLoginResult, error) {
	ttl := time.Duration(uc.stateConfig.TTLMinutes) * time.Minute
	state, err := account.NewOAuthState(ttl)
	if err != nil {
		uc.logger.Errorw("failed to generate oauth state", "error", err)
		return nil, fmt.Errorf("failed to generate oauth state: %w", err)
	}

	if err := uc.stateRepo.Create(ctx, state); err != nil {
		uc.logger.Errorw("failed to persist oauth state", "error", err)
		return nil, fmt.Errorf("failed to persist oauth state: %w", err)
	}

	url := uc.oauthClient.AuthCodeURL(state.StateToken)

	uc.logger.Debugw("oauth login initiated", "expires_at", state.ExpiresAt)

	return &InitiateOAuthLoginResult{
		AuthorizationURL: url,
		State:            state.StateToken,
	}, nil
}
