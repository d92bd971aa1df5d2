package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bazario/api/internal/models"
)

// Activation tokens carry the full pending-account payload through the
// email-verification round trip. They deliberately carry no expiry: an
// activation link stays valid until the email is claimed, and the activation
// endpoint's existing-account check is what makes re-use harmless.

type userActivationClaims struct {
	models.PendingUser
	jwt.RegisteredClaims
}

type shopActivationClaims struct {
	models.PendingShop
	jwt.RegisteredClaims
}

func IssueUserActivationToken(secret string, pending models.PendingUser) (string, error) {
	claims := userActivationClaims{
		PendingUser: pending,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Subject:  pending.Email,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign activation token: %w", err)
	}
	return signed, nil
}

func ParseUserActivationToken(tokenStr string, secret string) (models.PendingUser, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &userActivationClaims{}, hmacKeyFunc(secret))
	if err != nil {
		return models.PendingUser{}, err
	}
	claims, ok := token.Claims.(*userActivationClaims)
	if !ok || !token.Valid {
		return models.PendingUser{}, fmt.Errorf("invalid activation token")
	}
	return claims.PendingUser, nil
}

func IssueShopActivationToken(secret string, pending models.PendingShop) (string, error) {
	claims := shopActivationClaims{
		PendingShop: pending,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Subject:  pending.Email,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign activation token: %w", err)
	}
	return signed, nil
}

func ParseShopActivationToken(tokenStr string, secret string) (models.PendingShop, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &shopActivationClaims{}, hmacKeyFunc(secret))
	if err != nil {
		return models.PendingShop{}, err
	}
	claims, ok := token.Claims.(*shopActivationClaims)
	if !ok || !token.Valid {
		return models.PendingShop{}, fmt.Errorf("invalid activation token")
	}
	return claims.PendingShop, nil
}

func hmacKeyFunc(secret string) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}
}
