package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the full payload of a session token: account identity
// plus the registered issued-at/expiry claims. Sessions are stateless; the
// server keeps no record of issued tokens.
type SessionClaims struct {
	AccountID string `json:"uid"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func IssueSessionToken(secret string, accountID string, name string, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		AccountID: accountID,
		Name:      name,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   accountID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ParseSessionToken verifies signature and expiry and returns the embedded
// claims. Any failure (bad signature, expired, malformed) comes back as an
// error; callers treat them all as unauthenticated.
func ParseSessionToken(tokenStr string, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
