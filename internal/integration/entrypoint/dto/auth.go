package dto

import "time"

// TokenRequest represents the API-key exchange request body.
type TokenRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	APIKey   string `json:"api_key" binding:"required"`
}

// TokenResponse carries an issued service token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
