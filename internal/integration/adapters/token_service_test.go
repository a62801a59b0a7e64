package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerror "github.com/cdr-billing/backend/internal/domain/error"
)

func TestTokenService_GenerateAndValidate(t *testing.T) {
	ctx := context.Background()
	service := NewTokenService("test-secret", "cdr-billing", time.Hour)

	token, expiresAt, err := service.GenerateToken(ctx, "billing-worker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expected a future expiry")
	}

	claims, err := service.ValidateToken(ctx, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.ClientID != "billing-worker" {
		t.Errorf("expected client_id billing-worker, got %s", claims.ClientID)
	}
	if !claims.ExpiresAt.Equal(expiresAt.Truncate(time.Second)) {
		t.Errorf("expected expiry %s, got %s", expiresAt.Truncate(time.Second), claims.ExpiresAt)
	}
}

func TestTokenService_ValidateToken_Failures(t *testing.T) {
	ctx := context.Background()
	service := NewTokenService("test-secret", "cdr-billing", time.Hour)

	t.Run("expired token", func(t *testing.T) {
		expired := NewTokenService("test-secret", "cdr-billing", -time.Minute)
		token, _, err := expired.GenerateToken(ctx, "billing-worker")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err = service.ValidateToken(ctx, token)
		if !errors.Is(err, domainerror.ErrExpiredToken) {
			t.Errorf("expected ErrExpiredToken, got %v", err)
		}
		var authErr *domainerror.AuthError
		if !errors.As(err, &authErr) || authErr.Code != domainerror.ErrCodeExpiredToken {
			t.Errorf("expected code %s, got %v", domainerror.ErrCodeExpiredToken, err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other-secret", "cdr-billing", time.Hour)
		token, _, err := other.GenerateToken(ctx, "billing-worker")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := service.ValidateToken(ctx, token); err == nil {
			t.Error("expected validation to fail for a foreign signature")
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.ValidateToken(ctx, "not.a.token")
		var authErr *domainerror.AuthError
		if !errors.As(err, &authErr) || authErr.Code != domainerror.ErrCodeInvalidToken {
			t.Errorf("expected invalid token error, got %v", err)
		}
	})
}
