package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinCost     = bcrypt.MinCost
	MaxCost     = bcrypt.MaxCost
	DefaultCost = 12
)

var (
	ErrInvalidCost     = fmt.Errorf("bcrypt cost must be between %d and %d", MinCost, MaxCost)
	ErrPasswordTooLong = bcrypt.ErrPasswordTooLong
)

// HashPassword hashes a password with bcrypt at the given cost.
// The result is a modular crypt string ($2a$...) readable by any bcrypt implementation.
func HashPassword(password string, cost int) (string, error) {
	if cost < MinCost || cost > MaxCost {
		return "", ErrInvalidCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword reports whether password matches the bcrypt hash.
// A mismatch is not an error; a malformed hash is.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
