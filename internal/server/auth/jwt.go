// Package auth holds the credential primitives of the server: stateless
// session tokens (HS256 JWT) and bcrypt password hashing.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campuslink/campuslink/internal/common"
)

// Claims is the claim set carried by a session token: the registered claims
// plus the subject's admin flag. The token is self-contained; verification
// never consults the store.
type Claims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"is_admin"`
}

// GenerateToken signs a session token for the given user. The subject claim
// carries the user ID, IsAdmin carries the role flag.
func GenerateToken(userID string, isAdmin bool, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		IsAdmin: isAdmin,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies a session token and returns the subject user ID and
// admin flag. Malformed structure, a signature mismatch and an expired
// timestamp all return the same common.ErrorInvalidToken so a caller cannot
// tell which check failed.
func ParseToken(tokenString string, secretKey []byte) (string, bool, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrorInvalidToken
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", false, common.ErrorInvalidToken
	}

	return claims.Subject, claims.IsAdmin, nil
}
