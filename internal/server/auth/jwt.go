// Package auth signs and verifies the session cookie value. The cookie is a
// HS256 JWT whose sid claim names a server-side session; it carries no
// user data of its own.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophquiz/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

func GenerateToken(sessionID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		SessionID: sessionID,
	})

	return token.SignedString(secretKey)
}

// GetSessionIDFromToken returns common.ErrTokenExpired for expired tokens
// and common.ErrInvalidToken for anything else that fails verification.
func GetSessionIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.SessionID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.SessionID, nil
}

// SessionIDIgnoringExpiry verifies the signature of tokenString but skips
// the time claims, so the session behind an expired cookie can still be
// found and removed.
func SessionIDIgnoringExpiry(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil || claims.SessionID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.SessionID, nil
}
