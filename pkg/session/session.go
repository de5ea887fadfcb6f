package session

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims defines the signed payload of an admin console session.
type Claims struct {
	AccountID   int64 `json:"account_id"`
	IsSuperuser bool  `json:"is_superuser,omitempty"`
	jwtlib.RegisteredClaims
}

// Sign issues a signed session token with the provided secret and ttl.
func Sign(accountID int64, superuser bool, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID:   accountID,
		IsSuperuser: superuser,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    "accountd",
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse validates and extracts claims from a session token.
func Parse(token string, secret string) (*Claims, error) {
	parsed, err := jwtlib.ParseWithClaims(token, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Name}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwtlib.ErrTokenInvalidClaims
	}
	return claims, nil
}
