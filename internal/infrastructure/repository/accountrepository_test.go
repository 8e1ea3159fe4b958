package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lexid/internal/domain/account"
	vo "lexid/internal/domain/account/valueobjects"
	"lexid/internal/infrastructure/persistence/models"
	"lexid/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.AccountModel{}, &models.SessionModel{}, &models.OAuthStateModel{})
	require.NoError(t, err)

	return db
}

func createLocalAccount(t *testing.T, username, email string) *account.Account {
	un, err := vo.NewUsername(username)
	require.NoError(t, err)
	em, err := vo.NewEmail(email)
	require.NoError(t, err)

	acc, err := account.NewLocalAccount(un, em, "$2a$12$fakehashfakehashfakehashfakehash")
	require.NoError(t, err)
	return acc
}

func createExternalAccount(t *testing.T, username, email, externalID string) *account.Account {
	un, err := vo.NewUsername(username)
	require.NoError(t, err)
	em, err := vo.NewEmail(email)
	require.NoError(t, err)
	dn, err := vo.NewDisplayName("Test Player")
	require.NoError(t, err)

	acc, err := account.NewExternalAccount(un, em, externalID, dn, "https://example.com/avatar.png")
	require.NoError(t, err)
	return acc
}

func TestAccountRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("create local account successfully", func(t *testing.T) {
		acc := createLocalAccount(t, "alice", "alice@example.com")

		err := repo.Create(ctx, acc)
		assert.NoError(t, err)
		assert.NotZero(t, acc.ID())
	})

	t.Run("duplicate username is a username conflict", func(t *testing.T) {
		first := createLocalAccount(t, "bob", "bob@example.com")
		require.NoError(t, repo.Create(ctx, first))

		second := createLocalAccount(t, "bob", "bob2@example.com")
		err := repo.Create(ctx, second)
		require.Error(t, err)
		assert.True(t, account.IsConflict(err, account.ConflictUsernameTaken))
	})

	t.Run("duplicate email is an email conflict", func(t *testing.T) {
		first := createLocalAccount(t, "carol", "carol@example.com")
		require.NoError(t, repo.Create(ctx, first))

		second := createLocalAccount(t, "carol2", "carol@example.com")
		err := repo.Create(ctx, second)
		require.Error(t, err)
		assert.True(t, account.IsConflict(err, account.ConflictEmailTaken))
	})

	t.Run("duplicate external id is an external-id conflict", func(t *testing.T) {
		first := createExternalAccount(t, "dave", "dave@example.com", "google-sub-dup")
		require.NoError(t, repo.Create(ctx, first))

		second := createExternalAccount(t, "dave2", "dave2@example.com", "google-sub-dup")
		err := repo.Create(ctx, second)
		require.Error(t, err)
		assert.True(t, account.IsConflict(err, account.ConflictExternalIDLinked))
	})
}

func TestAccountRepository_Lookups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db, logger.NewLogger())
	ctx := context.Background()

	acc := createExternalAccount(t, "erin", "erin@example.com", "google-sub-erin")
	require.NoError(t, repo.Create(ctx, acc))

	t.Run("get by id", func(t *testing.T) {
		found, err := repo.GetByID(ctx, acc.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "erin", found.Username().String())
	})

	t.Run("get by username", func(t *testing.T) {
		found, err := repo.GetByUsername(ctx, "erin")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, acc.ID(), found.ID())
	})

	t.Run("get by email", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "erin@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, acc.ID(), found.ID())
	})

	t.Run("get by external id", func(t *testing.T) {
		found, err := repo.GetByExternalID(ctx, "google-sub-erin")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, acc.ID(), found.ID())
	})

	t.Run("absent account returns nil without error", func(t *testing.T) {
		found, err := repo.GetByUsername(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("deactivated account is invisible to lookups", func(t *testing.T) {
		gone := createLocalAccount(t, "frank", "frank@example.com")
		require.NoError(t, repo.Create(ctx, gone))

		gone.Deactivate()
		require.NoError(t, repo.Update(ctx, gone))

		found, err := repo.GetByUsername(ctx, "frank")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestAccountRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("link external id to local account", func(t *testing.T) {
		acc := createLocalAccount(t, "grace", "grace@example.com")
		require.NoError(t, repo.Create(ctx, acc))

		require.NoError(t, acc.LinkExternalID("google-sub-grace"))
		require.NoError(t, repo.Update(ctx, acc))

		found, err := repo.GetByExternalID(ctx, "google-sub-grace")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, acc.ID(), found.ID())
		assert.True(t, found.HasPassword())
	})

	t.Run("update of unknown account fails", func(t *testing.T) {
		acc := createLocalAccount(t, "heidi", "heidi@example.com")
		require.NoError(t, acc.SetID(99999))

		err := repo.Update(ctx, acc)
		assert.Error(t, err)
	})
}

func TestAccountRepository_Exists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db, logger.NewLogger())
	ctx := context.Background()

	acc := createLocalAccount(t, "ivan", "ivan@example.com")
	require.NoError(t, repo.Create(ctx, acc))

	taken, err := repo.ExistsByUsername(ctx, "ivan")
	require.NoError(t, err)
	assert.True(t, taken)

	free, err := repo.ExistsByUsername(ctx, "ivan2")
	require.NoError(t, err)
	assert.False(t, free)

	taken, err = repo.ExistsByEmail(ctx, "ivan@example.com")
	require.NoError(t, err)
	assert.True(t, taken)
}
