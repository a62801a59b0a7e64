// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cdr-billing/backend/internal/application/adapter"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

// ServiceClaims represents the custom claims for service tokens.
type ServiceClaims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// tokenService implements the adapter.TokenService interface with HS256
// service tokens. Tokens are stateless; there is no refresh flow, callers
// re-exchange their API key when a token expires.
type tokenService struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
}

// NewTokenService creates a new token service instance.
func NewTokenService(secret, issuer string, lifetime time.Duration) adapter.TokenService {
	return &tokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		lifetime: lifetime,
	}
}

// GenerateToken issues a signed service token for the given client.
func (s *tokenService) GenerateToken(_ context.Context, clientID string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.lifetime)

	claims := ServiceClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidToken,
			"failed to sign service token",
			err,
		)
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a service token and returns its claims.
func (s *tokenService) ValidateToken(_ context.Context, tokenString string) (*adapter.TokenClaims, error) {
	claims := &ServiceClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerror.NewAuthError(
				domainerror.ErrCodeExpiredToken,
				"service token has expired",
				domainerror.ErrExpiredToken,
			)
		}
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidToken,
			"service token validation failed",
			err,
		)
	}
	if !token.Valid || claims.ClientID == "" {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidToken,
			"service token is not valid",
			domainerror.ErrInvalidToken,
		)
	}

	return &adapter.TokenClaims{
		ClientID:  claims.ClientID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
