package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionIssuer   = "recipebox"
	sessionAudience = "recipebox-session"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// GenerateSessionToken signs a cookie value that carries the server-side session id
// in the jti claim. The token proves the id was issued by this server; whether the
// session is still live is decided by the session store.
func GenerateSessionToken(sessionID, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Issuer:    sessionIssuer,
		Audience:  jwt.ClaimStrings{sessionAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateSessionToken verifies the signature, issuer, audience and expiry of a
// session cookie value and returns the session id it carries.
func ValidateSessionToken(tokenString, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithAudience(sessionAudience), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.ID == "" {
		return "", ErrInvalidToken
	}

	return claims.ID, nil
}
