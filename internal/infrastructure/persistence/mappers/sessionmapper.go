package mappers

import (
	"lexid/internal/domain/account"
	"lexid/internal/infrastructure/persistence/models"
)

// SessionMapper converts between session entities and persistence models
type SessionMapper interface {
	ToDomain(model *models.SessionModel) *account.Session
	ToModel(session *account.Session) *models.SessionModel
}

type sessionMapperImpl struct{}

// NewSessionMapper creates a new session mapper
func NewSessionMapper() SessionMapper {
	return &sessionMapperImpl{}
}

func (m *sessionMapperImpl) ToDomain(model *models.SessionModel) *account.Session {
	if model == nil {
		return nil
	}
	return &account.Session{
		ID:               model.ID,
		AccountID:        model.AccountID,
		RefreshTokenHash: model.RefreshTokenHash,
		IPAddress:        model.IPAddress,
		UserAgent:        model.UserAgent,
		ExpiresAt:        model.ExpiresAt,
		LastActivityAt:   model.LastActivityAt,
		CreatedAt:        model.CreatedAt,
	}
}

func (m *sessionMapperImpl) ToModel(session *account.Session) *models.SessionModel {
	if session == nil {
		return nil
	}
	return &models.SessionModel{
		ID:               session.ID,
		AccountID:        session.AccountID,
		RefreshTokenHash: session.RefreshTokenHash,
		IPAddress:        session.IPAddress,
		UserAgent:        session.UserAgent,
		ExpiresAt:        session.ExpiresAt,
		LastActivityAt:   session.LastActivityAt,
		CreatedAt:        session.CreatedAt,
	}
}
