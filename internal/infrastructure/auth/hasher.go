package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// minBcryptCost is the floor for password hashing cost.
const minBcryptCost = 12

type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost < minBcryptCost {
		cost = minBcryptCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate password hash: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptPasswordHasher) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		// Generic message regardless of cause: mismatched password and
		// malformed hash must be indistinguishable to the caller
		return fmt.Errorf("password verification failed")
	}
	return nil
}
