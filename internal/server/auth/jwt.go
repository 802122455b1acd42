// Package auth issues and verifies the HS256 bearer tokens that guard the
// admin routes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/subcheck/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// AdminRole is the only role accepted on admin routes.
const AdminRole = "admin"

// Claims holds the registered claims plus the caller's role.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// GenerateAdminToken signs an admin token for subject that expires after validity.
func GenerateAdminToken(subject string, secretKey []byte, validity time.Duration) (string, error) {
	if len(secretKey) == 0 {
		return "", errors.New("empty secret key")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Role: AdminRole,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseAdminToken verifies tokenString and returns its subject. Any failure,
// including expiry and a non-admin role, is reported as common.ErrInvalidToken.
func ParseAdminToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Role != AdminRole {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
