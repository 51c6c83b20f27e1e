// Package auth provides the credential primitives used by the marketplace:
// bcrypt password hashing, session token minting, and the HTTP middleware
// that resolves a bearer token into a session.
//
// bcrypt embeds a random salt and its cost in the hash it produces:
//
//	$2a$12$<22-char salt><31-char hash>
//	 ^   ^
//	 |   cost (2^12 rounds)
//	 version
//
// so the stored string is all Verify needs.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// MaxPasswordBytes is bcrypt's input limit. Longer passwords are rejected
// rather than silently truncated.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by Hash for inputs over MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("auth: password must be 72 bytes or fewer")

// PasswordService provides bcrypt hashing and verification.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: DefaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with an explicit cost.
// Tests use bcrypt.MinCost (4); the config layer validates the range for
// production values.
func NewPasswordServiceWithCost(cost int) (*PasswordService, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth: bcrypt cost must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return &PasswordService{cost: cost}, nil
}

// Hash hashes the given plaintext password with bcrypt.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// Returns nil if they match.
//
//	if err := ps.Verify(user.PasswordHash, input); err != nil {
//	    // wrong password
//	}
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
