package utils // package utils provides helpers for password hashing and identity tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned by VerifyIdentityToken when a supplied token
// is malformed, carries a wrong signature, or has no usable subject.
var ErrInvalidToken = errors.New("invalid identity token")

// NewIdentityToken builds and signs an HS256 JWT whose subject is the user
// ID. The token carries only sub and iat: sessions are stateless and stay
// valid until the signing secret rotates, so no exp claim is set.
func NewIdentityToken(secret string, userID uint64) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(userID, 10),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// VerifyIdentityToken parses a token string and returns the user ID it was
// issued for. Any parse or signature failure, a non-HMAC signing method,
// or a missing subject yields ErrInvalidToken. Callers decide what an
// absent token means; this function only judges tokens it is handed.
func VerifyIdentityToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	switch sub := claims["sub"].(type) {
	case string:
		id, err := strconv.ParseUint(sub, 10, 64)
		if err != nil || id == 0 {
			return 0, ErrInvalidToken
		}
		return id, nil
	case float64:
		// JWT numeric claims are decoded as float64.
		if sub <= 0 {
			return 0, ErrInvalidToken
		}
		return uint64(sub), nil
	}
	return 0, ErrInvalidToken
}
