package account

// PasswordHasher abstracts the one-way password hash. Implementations
// must use an adaptive salted algorithm and a constant-time comparison.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}
