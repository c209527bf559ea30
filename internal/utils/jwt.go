package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned by [TokenExpiry] for tokens without an exp claim.
var ErrNoExpiry = errors.New("token has no expiration claim")

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

// TokenExpiry returns the exp claim of a JWT without verifying its signature.
//
// The client never holds the server signing key, so the value is only a hint
// used to avoid sending requests that are certain to be rejected. The server
// remains the authority on token validity.
func TokenExpiry(tokenString string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, err
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// TokenValid reports whether tokenString parses and expires after now plus skew.
func TokenValid(tokenString string, now time.Time, skew time.Duration) bool {
	exp, err := TokenExpiry(tokenString)
	if err != nil {
		return false
	}
	return exp.After(now.Add(skew))
}
