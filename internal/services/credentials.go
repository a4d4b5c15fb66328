package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"mars/internal/common"

	"golang.org/x/crypto/bcrypt"
)

// unusablePrefix can never start a bcrypt hash, so Verify always fails on it.
const unusablePrefix = "!"

// CredentialStore hashes and verifies passwords with bcrypt.
type CredentialStore struct {
	cost int
}

// NewCredentialStore creates a CredentialStore. An out of range cost falls back to bcrypt.DefaultCost.
func NewCredentialStore(cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialStore{cost: cost}
}

// Hash returns a salted bcrypt hash of plaintext.
func (c *CredentialStore) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), c.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.NewValidationError("password", "must be at most 72 bytes")
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. Malformed hashes never match.
func (c *CredentialStore) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// IsUsable reports whether hash came from Hash rather than UnusableHash.
func (c *CredentialStore) IsUsable(hash string) bool {
	return hash != "" && !strings.HasPrefix(hash, unusablePrefix)
}

// UnusableHash returns a random value that no password will ever verify against.
func (c *CredentialStore) UnusableHash() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return unusablePrefix + hex.EncodeToString(buf)
}
