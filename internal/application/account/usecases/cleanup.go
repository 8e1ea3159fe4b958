package usecases

import (
	"context"

	"lexid/internal/domain/account"
	"lexid/internal/shared/logger"
)

type CleanupResult struct {
	SessionsRemoved int64
	StatesRemoved   int64
}

type CleanupExpiredUseCase struct {
	sessionRepo account.SessionRepository
	stateRepo   account.StateRepository
	logger      logger.Interface
}

func NewCleanupExpiredUseCase(
	sessionRepo account.SessionRepository,
	stateRepo account.StateRepository,
	logger logger.Interface,
) *CleanupExpiredUseCase {
	return &CleanupExpiredUseCase{
		sessionRepo: sessionRepo,
		stateRepo:   stateRepo,
		logger:      logger,
	}
}

// Execute sweeps expired sessions and oauth states. A failure on one
// table does not stop the other sweep; the last error is returned after
// both ran.
func (uc *CleanupExpiredUseCase) Execute(ctx context.Context) (*CleanupResult, error) {
	result := &CleanupResult{}
	var lastErr error

	sessions, err := uc.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		uc.logger.Errorw("failed to sweep expired sessions", "error", err)
		lastErr = err
	} else {
		result.SessionsRemoved = sessions
	}

	states, err := uc.stateRepo.DeleteExpired(ctx)
	if err != nil {
		uc.logger.Errorw("failed to sweep expired oauth states", "error", err)
		lastErr = err
	} else {
		result.StatesRemoved = states
	}

	return result, lastErr
}
