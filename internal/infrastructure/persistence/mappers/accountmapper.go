package mappers

import (
	"fmt"

	"lexid/internal/domain/account"
	vo "lexid/internal/domain/account/valueobjects"
	"lexid/internal/infrastructure/persistence/models"
)

// AccountMapper handles the conversion between domain entities and
// persistence models
type AccountMapper interface {
	// ToEntity converts a persistence model to a domain entity
	ToEntity(model *models.AccountModel) (*account.Account, error)

	// ToModel converts a domain entity to a persistence model
	ToModel(entity *account.Account) (*models.AccountModel, error)
}

type accountMapperImpl struct{}

// NewAccountMapper creates a new account mapper
func NewAccountMapper() AccountMapper {
	return &accountMapperImpl{}
}

func (m *accountMapperImpl) ToEntity(model *models.AccountModel) (*account.Account, error) {
	if model == nil {
		return nil, nil
	}

	username, err := vo.NewUsername(model.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create username value object: %w", err)
	}

	email, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create email value object: %w", err)
	}

	displayName, err := vo.NewDisplayName(model.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("failed to create display name value object: %w", err)
	}

	entity, err := account.ReconstructAccount(
		model.ID,
		username,
		email,
		displayName,
		model.AvatarURL,
		model.PasswordHash,
		model.ExternalProviderID,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct account entity: %w", err)
	}

	return entity, nil
}

func (m *accountMapperImpl) ToModel(entity *account.Account) (*models.AccountModel, error) {
	if entity == nil {
		return nil, fmt.Errorf("account entity cannot be nil")
	}

	displayName := ""
	if entity.DisplayName() != entity.Username().String() {
		displayName = entity.DisplayName()
	}

	return &models.AccountModel{
		ID:                 entity.ID(),
		Username:           entity.Username().String(),
		Email:              entity.Email().String(),
		DisplayName:        displayName,
		AvatarURL:          entity.AvatarURL(),
		PasswordHash:       entity.PasswordHash(),
		ExternalProviderID: entity.ExternalProviderID(),
		IsActive:           entity.IsActive(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}, nil
}
