package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash of the console account password.
// Costs outside bcrypt's valid range fall back to the library default so
// a misconfigured BCRYPT_COST cannot brick account creation.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a stored hash against a login attempt in
// constant time. Malformed hashes simply fail verification.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
