package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lexid/internal/domain/account"
	"lexid/internal/infrastructure/persistence/mappers"
	"lexid/internal/infrastructure/persistence/models"
	"lexid/internal/shared/biztime"
	apperrors "lexid/internal/shared/errors"
	"lexid/internal/shared/logger"
)

// SessionRepository implements account.SessionRepository on gorm
type SessionRepository struct {
	db     *gorm.DB
	mapper mappers.SessionMapper
	logger logger.Interface
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB, logger logger.Interface) account.SessionRepository {
	return &SessionRepository{
		db:     db,
		mapper: mappers.NewSessionMapper(),
		logger: logger,
	}
}

// Create persists a new session row
func (r *SessionRepository) Create(ctx context.Context, session *account.Session) error {
	model := r.mapper.ToModel(session)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create session", "account_id", session.AccountID, "error", err)
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByRefreshTokenHash retrieves an unexpired session by token hash
func (r *SessionRepository) GetByRefreshTokenHash(ctx context.Context, tokenHash string) (*account.Session, error) {
	var model models.SessionModel

	err := r.db.WithContext(ctx).
		Where("refresh_token_hash = ? AND expires_at > ?", tokenHash, biztime.NowUTC()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("session not found")
		}
		r.logger.Errorw("failed to get session by token hash", "error", err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return r.mapper.ToDomain(&model), nil
}

// Delete removes the session by id. Returns not-found when no row was
// deleted so that concurrent refreshes of the same token resolve to a
// single winner.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		Delete(&models.SessionModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete session", "session_id", sessionID, "error", result.Error)
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("session not found")
	}

	return nil
}

// DeleteByRefreshTokenHash removes the session holding the token hash.
// Deleting an absent row is not an error, logout stays idempotent.
func (r *SessionRepository) DeleteByRefreshTokenHash(ctx context.Context, tokenHash string) error {
	err := r.db.WithContext(ctx).
		Where("refresh_token_hash = ?", tokenHash).
		Delete(&models.SessionModel{}).Error
	if err != nil {
		r.logger.Errorw("failed to delete session by token hash", "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteByAccountID removes every session belonging to the account
func (r *SessionRepository) DeleteByAccountID(ctx context.Context, accountID uint) error {
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&models.SessionModel{}).Error
	if err != nil {
		r.logger.Errorw("failed to delete sessions for account", "account_id", accountID, "error", err)
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	return nil
}

// DeleteExpired removes sessions past their expiry and reports the count
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", biztime.NowUTC()).
		Delete(&models.SessionModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete expired sessions", "error", result.Error)
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}

	return result.RowsAffected, nil
}
