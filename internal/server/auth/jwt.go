// Package auth signs and verifies the session secrets handed to clients.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies the session and its account.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	AccountID string `json:"aid"`
}

// GenerateToken signs an HS256 secret for the session that expires at expiresAt.
func GenerateToken(sessionID, accountID string, secretKey []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
		AccountID: accountID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ParseToken verifies tokenString and returns its claims. Every failure,
// including expiry, wraps common.ErrAuth.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: session expired", common.ErrAuth)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrAuth, err)
	}

	if !token.Valid || claims.SessionID == "" {
		return nil, fmt.Errorf("%w: invalid session secret", common.ErrAuth)
	}
	return claims, nil
}
