package gateway

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// Token verification failures
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMalformedToken   = errors.New("malformed token")
	ErrClaimMismatch    = errors.New("token claims do not match expected values")
)

// Claims is a flat mapping of assertion fields carried in a signed token.
type Claims map[string]interface{}

// SignClaims signs the claims with the shared secret using HS256 and embeds
// an expiry ttl from now.
func SignClaims(claims Claims, secret string, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	mapClaims := token.Claims.(jwt.MapClaims)
	for key, value := range claims {
		mapClaims[key] = value
	}
	mapClaims["exp"] = time.Now().Add(ttl).Unix()

	return token.SignedString([]byte(secret))
}

// VerifyToken parses and validates a signed token against the shared secret.
func VerifyToken(tokenString, secret string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return []byte(secret), nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) {
			switch {
			case validationErr.Errors&jwt.ValidationErrorExpired != 0:
				return nil, ErrTokenExpired
			case validationErr.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				return nil, ErrInvalidSignature
			}
		}
		return nil, ErrMalformedToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}

	claims := Claims{}
	for key, value := range mapClaims {
		claims[key] = value
	}
	return claims, nil
}

// MatchClaims checks that every expected field equals the corresponding claim
// value. This guards against a valid token being replayed in a different
// request context. Values are compared through their string form since JSON
// decoding turns all numbers into float64.
func MatchClaims(claims Claims, expected Claims) error {
	for key, want := range expected {
		got, ok := claims[key]
		if !ok {
			return fmt.Errorf("%w: missing claim %q", ErrClaimMismatch, key)
		}
		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return fmt.Errorf("%w: claim %q", ErrClaimMismatch, key)
		}
	}
	return nil
}
