package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher produces and checks one-way salted password hashes
type Hasher interface {
	// Hash returns a new salted hash; repeated calls on the same input differ
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext produced hash
	Verify(plaintext, hash string) bool
}

// BcryptHasher implements Hasher with bcrypt
type BcryptHasher struct {
	cost int
}

// Ensure BcryptHasher implements Hasher
var _ Hasher = (*BcryptHasher)(nil)

// NewBcrypt creates a BcryptHasher with the given work factor.
// A cost outside bcrypt's accepted range falls back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash hashes the password with a random salt
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(hash), nil
}

// Verify compares the password with a bcrypt hash
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// Cost returns the configured work factor
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// ErrPasswordTooLong is returned for passwords over bcrypt's 72 byte limit
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
