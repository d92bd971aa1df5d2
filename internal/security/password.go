package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Work factor is fixed; changing it only affects new hashes since bcrypt
// embeds the cost in the digest.
const bcryptCost = 10

func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// VerifyPassword reports whether password matches the stored digest. A
// mismatch is (false, nil); the error return is reserved for malformed
// digests and other unexpected failures.
func VerifyPassword(password string, digest []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword(digest, []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("compare password: %w", err)
}
