// Package auth implements the credential service: password hashing and
// verification, and issuing and checking signed access tokens.
package auth

import (
	"context"
	"time"

	"github.com/dmitrijs2005/staffql/internal/cryptox"
)

// Credentials bundles the process-wide signing secret, token lifetime and
// bcrypt cost. It is built once at startup and is read-only afterwards.
type Credentials struct {
	secretKey []byte
	validity  time.Duration
	cost      int
}

// NewCredentials constructs the credential service. A zero cost selects
// cryptox.DefaultCost.
func NewCredentials(secretKey string, validity time.Duration, cost int) *Credentials {
	return &Credentials{secretKey: []byte(secretKey), validity: validity, cost: cost}
}

func (c *Credentials) Hash(secret string) (string, error) {
	return cryptox.HashPassword(secret, c.cost)
}

func (c *Credentials) Verify(secret, hash string) (bool, error) {
	return cryptox.VerifyPassword(secret, hash)
}

// IssueToken returns a token for subjectID expiring after the configured
// validity.
func (c *Credentials) IssueToken(subjectID string) (string, error) {
	return GenerateToken(subjectID, c.secretKey, c.validity)
}

// ParseToken returns the user id carried by a valid, unexpired token.
func (c *Credentials) ParseToken(token string) (string, error) {
	return GetUserIDFromToken(token, c.secretKey)
}

type ctxKey string

const userIDKey ctxKey = "userID"

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
