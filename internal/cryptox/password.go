// Package cryptox wraps the one-way password hashing used for user
// credentials.
package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt hash of secret. Every call uses a fresh
// salt, so hashing the same secret twice yields different outputs.
func HashPassword(secret string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether secret produced hash. A mismatch is
// (false, nil); a malformed hash or other bcrypt failure is returned as an
// error. The comparison is constant-time within bcrypt.
func VerifyPassword(secret, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
