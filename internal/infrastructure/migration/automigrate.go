package migration

import (
	"lexid/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.AccountModel{},
		&models.SessionModel{},
		&models.OAuthStateModel{},
	}
}
