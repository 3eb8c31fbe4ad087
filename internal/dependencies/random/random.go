package random

import (
	"crypto/rand"
	"math/big"
)

// TokenAlphabet is the URL- and cookie-safe alphabet used for tokens
const TokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// Random provides random token generation that can be mocked for testing
type Random interface {
	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// String generates a cryptographically random string of the given length
// from the given alphabet. It panics if the system entropy source fails,
// since every caller uses the result as a secret.
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	max := big.NewInt(int64(len(alphabet)))
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("random: entropy source failed: " + err.Error())
		}
		result[i] = alphabet[n.Int64()]
	}
	return string(result)
}
