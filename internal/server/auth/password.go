package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/campuslink/campuslink/internal/common"
)

// bcrypt embeds a random per-call salt, so two hashes of the same password
// differ. Cost 10 keeps brute-force search deliberately slow.
const hashCost = 10

// HashPassword returns the bcrypt digest of a plaintext password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a plaintext candidate against a stored digest.
// The comparison inside bcrypt is constant-time. Any failure, including a
// malformed digest, is reported as common.ErrorInvalidCredentials so the
// caller never learns why verification failed.
func CheckPassword(password, digest string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)); err != nil {
		// a mismatch and a corrupt digest are deliberately indistinguishable
		return common.ErrorInvalidCredentials
	}
	return nil
}
