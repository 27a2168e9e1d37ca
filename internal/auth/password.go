package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords using bcrypt. The cost factor is fixed
// at construction and read-only afterwards, so a single Hasher is safe for
// concurrent use.
type Hasher struct {
	cost int
}

// NewHasher constructs a Hasher with the given bcrypt cost. A cost of zero
// selects bcrypt.DefaultCost.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d out of range", ErrInvalidInput, cost)
	}
	return &Hasher{cost: cost}, nil
}

// Hash derives a salted one-way hash from the plaintext password. The salt is
// generated per call, so hashing the same password twice yields two different
// hashes.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) == 0 {
		return "", fmt.Errorf("%w: password is empty", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify recomputes the hash using the salt embedded in the stored value and
// compares in constant time. A wrong password returns ErrPasswordMismatch; a
// hash that cannot be decoded returns ErrInvalidInput.
func (h *Hasher) Verify(hash, password string) error {
	if hash == "" {
		return fmt.Errorf("%w: password hash is empty", ErrInvalidInput)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
}
