package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plain text password with a fresh random salt.
// Two calls with the same input produce different hashes.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether password matches hash. A malformed hash
// is treated as a mismatch, never an error. bcrypt compares in constant time.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
