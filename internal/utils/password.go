package utils

import "golang.org/x/crypto/bcrypt"

// passwordHashCost is the bcrypt work factor for account passwords.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword derives the stored digest for an account password.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPasswordHash reports whether password matches the stored digest. The
// result is success or failure only; callers must not distinguish further.
func CheckPasswordHash(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
