package account

import "context"

// Repository defines the interface for account data operations. Lookups
// return (nil, nil) when no matching active account exists; absence is
// not an error. Create translates uniqueness violations into the three
// distinct conflict outcomes defined in errors.go.
type Repository interface {
	// Create inserts a new account and sets its ID
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an active account by internal ID
	GetByID(ctx context.Context, id uint) (*Account, error)

	// GetByUsername retrieves an active account by username
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// GetByEmail retrieves an active account by email
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetByExternalID retrieves an active account by identity-provider id
	GetByExternalID(ctx context.Context, externalID string) (*Account, error)

	// Update persists changed fields; fails with not-found if the
	// account is absent or inactive
	Update(ctx context.Context, account *Account) error

	// ExistsByUsername checks if an active account holds the username
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail checks if an active account holds the email
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
