package adapter

import (
	"context"
	"time"
)

// TokenClaims represents the claims contained in a service token.
type TokenClaims struct {
	ClientID  string
	ExpiresAt time.Time
}

// TokenService defines the interface for service-token operations.
type TokenService interface {
	// GenerateToken issues a signed service token for the given client.
	GenerateToken(ctx context.Context, clientID string) (string, time.Time, error)

	// ValidateToken validates a service token and returns its claims.
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}
