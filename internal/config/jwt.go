package config

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims ties a browser to its session ID. Whether that session is
// still logged in is decided by the session monitor, not by the token.
type SessionClaims struct {
	SessionID string `json:"sid"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

func GenerateToken(secret, sessionID, name, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SessionID: sessionID,
		Name:      name,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(secret, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid && claims.SessionID != "" {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}
