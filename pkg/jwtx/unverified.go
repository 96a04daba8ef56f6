package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ParseUnverified decodes the claims of a JWT without checking its
// signature. Clients use it to read exp from a token they hold so that an
// expired token can be discarded without a network call. Never use it to
// make an authorization decision.
func ParseUnverified(tokenStr string) (Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}

// ExpiresAt reports the exp claim of tokenStr. ok is false for opaque
// tokens and JWTs without exp.
func ExpiresAt(tokenStr string) (exp time.Time, ok bool) {
	claims, err := ParseUnverified(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
