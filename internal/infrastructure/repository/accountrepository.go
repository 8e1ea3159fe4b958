package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lexid/internal/domain/account"
	"lexid/internal/infrastructure/persistence/mappers"
	"lexid/internal/infrastructure/persistence/models"
	apperrors "lexid/internal/shared/errors"
	"lexid/internal/shared/logger"
)

// AccountRepository implements account.Repository on gorm
type AccountRepository struct {
	db     *gorm.DB
	mapper mappers.AccountMapper
	logger logger.Interface
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB, logger logger.Interface) account.Repository {
	return &AccountRepository{
		db:     db,
		mapper: mappers.NewAccountMapper(),
		logger: logger,
	}
}

// Create inserts a new account. Uniqueness violations are translated into
// the three distinct conflict outcomes; two concurrent creates with the
// same username resolve deterministically at the unique index.
func (r *AccountRepository) Create(ctx context.Context, entity *account.Account) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		r.logger.Errorw("failed to map account entity to model", "error", err)
		return fmt.Errorf("failed to map account entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if conflictErr := translateDuplicate(err); conflictErr != nil {
			return conflictErr
		}
		r.logger.Errorw("failed to create account in database", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	if err := entity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set account ID", "error", err)
		return fmt.Errorf("failed to set account ID: %w", err)
	}

	r.logger.Infow("account created", "id", model.ID, "username", model.Username)
	return nil
}

// GetByID retrieves an active account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uint) (*account.Account, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByUsername retrieves an active account by username
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	return r.getOne(ctx, "username = ?", username)
}

// GetByEmail retrieves an active account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.getOne(ctx, "email = ?", email)
}

// GetByExternalID retrieves an active account by identity-provider id
func (r *AccountRepository) GetByExternalID(ctx context.Context, externalID string) (*account.Account, error) {
	return r.getOne(ctx, "external_provider_id = ?", externalID)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg interface{}) (*account.Account, error) {
	var model models.AccountModel

	err := r.db.WithContext(ctx).
		Where(query, arg).
		Where("is_active = ?", true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get account", "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map account model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map account: %w", err)
	}

	return entity, nil
}

// Update persists the account; not-found covers absent and inactive rows
func (r *AccountRepository) Update(ctx context.Context, entity *account.Account) error {
	model, err := r.mapper.ToModel(entity)
	if err != nil {
		return fmt.Errorf("failed to map account entity: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("id = ? AND is_active = ?", model.ID, true).
		Updates(map[string]interface{}{
			"username":             model.Username,
			"email":                model.Email,
			"display_name":         model.DisplayName,
			"avatar_url":           model.AvatarURL,
			"password_hash":        model.PasswordHash,
			"external_provider_id": model.ExternalProviderID,
			"is_active":            model.IsActive,
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		if conflictErr := translateDuplicate(result.Error); conflictErr != nil {
			return conflictErr
		}
		r.logger.Errorw("failed to update account", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("account not found")
	}

	return nil
}

// ExistsByUsername checks if an active account holds the username
func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

// ExistsByEmail checks if an active account holds the email
func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *AccountRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where(query, arg).
		Where("is_active = ?", true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return count > 0, nil
}

// translateDuplicate maps a unique-index violation to the conflicting
// field, or returns nil for non-duplicate errors. The external id index
// is matched first since its name contains neither "username" nor
// "email" and vice versa.
func translateDuplicate(err error) error {
	if !apperrors.IsDuplicateError(err) {
		return nil
	}
	switch {
	case apperrors.DuplicateKeyContains(err, "external_provider_id"):
		return account.NewExternalIDLinkedError()
	case apperrors.DuplicateKeyContains(err, "username"):
		return account.NewUsernameTakenError()
	case apperrors.DuplicateKeyContains(err, "email"):
		return account.NewEmailTakenError()
	default:
		return apperrors.NewConflictError("account already exists")
	}
}
