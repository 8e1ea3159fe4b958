package usecases

import (
	"context"
	"fmt"

	"lexid/internal/domain/account"
	apperrors "lexid/internal/shared/errors"
	"lexid/internal/shared/logger"
)

type GetAccountUseCase struct {
	accountRepo account.Repository
	logger      logger.Interface
}

func NewGetAccountUseCase(accountRepo account.Repository, logger logger.Interface) *GetAccountUseCase {
	return &GetAccountUseCase{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Execute loads the active account behind a verified access token. An
// account deactivated after the token was minted comes back not-found.
func (uc *GetAccountUseCase) Execute(ctx context.Context, accountID uint) (*account.Account, error) {
	existing, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		uc.logger.Errorw("failed to get account", "error", err, "account_id", accountID)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if existing == nil {
		return nil, apperrors.NewNotFoundError("account not found")
	}

	return existing, nil
}
