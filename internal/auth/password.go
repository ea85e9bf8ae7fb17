package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used in production.
const DefaultHashCost = 10

// Hasher wraps bcrypt behind the two operations the rest of the subsystem
// needs. The same instance hashes passwords and reset OTPs.
type Hasher struct {
	cost int
}

// NewHasher validates the cost factor and returns a ready Hasher.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

// Hash derives a salted digest of plaintext. The plaintext is never retained.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("empty plaintext")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. bcrypt's comparison is
// constant time with respect to the digest contents.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
