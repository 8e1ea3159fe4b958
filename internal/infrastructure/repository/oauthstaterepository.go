package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lexid/internal/domain/account"
	"lexid/internal/infrastructure/persistence/models"
	"lexid/internal/shared/biztime"
	"lexid/internal/shared/constants"
	apperrors "lexid/internal/shared/errors"
	"lexid/internal/shared/logger"
)

// OAuthStateRepository implements account.StateRepository on gorm
type OAuthStateRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewOAuthStateRepository creates a new oauth state repository
func NewOAuthStateRepository(db *gorm.DB, logger logger.Interface) account.StateRepository {
	return &OAuthStateRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a freshly issued state token
func (r *OAuthStateRepository) Create(ctx context.Context, state *account.OAuthState) error {
	model := &models.OAuthStateModel{
		StateToken: state.StateToken,
		ExpiresAt:  state.ExpiresAt,
		CreatedAt:  state.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create oauth state", "error", err)
		return fmt.Errorf("failed to create oauth state: %w", err)
	}

	return nil
}

// Consume atomically deletes the state if it exists and has not expired.
// A single conditional delete guarantees each token is accepted at most
// once even under concurrent callbacks. When nothing was deleted a probe
// distinguishes an expired token from an unknown one.
func (r *OAuthStateRepository) Consume(ctx context.Context, stateToken string) error {
	result := r.db.WithContext(ctx).
		Where("state_token = ? AND expires_at > ?", stateToken, biztime.NowUTC()).
		Delete(&models.OAuthStateModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to consume oauth state", "error", result.Error)
		return fmt.Errorf("failed to consume oauth state: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var expired models.OAuthStateModel
	err := r.db.WithContext(ctx).
		Where("state_token = ?", stateToken).
		First(&expired).Error
	if err == nil {
		return apperrors.NewUnauthorizedError("state token expired", string(constants.OAuthErrorExpiredState))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Errorw("failed to probe oauth state", "error", err)
		return fmt.Errorf("failed to probe oauth state: %w", err)
	}

	return apperrors.NewUnauthorizedError("invalid state token", string(constants.OAuthErrorInvalidState))
}

// DeleteExpired removes state tokens past their expiry and reports the count
func (r *OAuthStateRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", biztime.NowUTC()).
		Delete(&models.OAuthStateModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete expired oauth states", "error", result.Error)
		return 0, fmt.Errorf("failed to delete expired oauth states: %w", result.Error)
	}

	return result.RowsAffected, nil
}
