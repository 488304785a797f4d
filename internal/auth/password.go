package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Stored in users.password_hash. RegisterInput caps passwords at 72 bytes,
// the most bcrypt reads.
const passwordCost = 10

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// passwordMatches reports whether password hashes to stored. A malformed
// stored hash never matches.
func passwordMatches(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
