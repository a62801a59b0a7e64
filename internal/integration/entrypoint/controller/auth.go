package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/cdr-billing/backend/internal/application/adapter"
	domainerror "github.com/cdr-billing/backend/internal/domain/error"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/dto"
)

// AuthController exchanges a pre-shared API key for a service token. The key
// is stored as a bcrypt hash in configuration, never in plaintext.
type AuthController struct {
	tokenService adapter.TokenService
	apiKeyHash   string
}

// NewAuthController creates a new auth controller instance.
func NewAuthController(tokenService adapter.TokenService, apiKeyHash string) *AuthController {
	return &AuthController{
		tokenService: tokenService,
		apiKeyHash:   apiKeyHash,
	}
}

// Token handles POST /auth/token requests.
func (c *AuthController) Token(ctx *gin.Context) {
	var req dto.TokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "client_id and api_key are required",
			Code:  string(domainerror.ErrCodeInvalidAPIKey),
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.apiKeyHash), []byte(req.APIKey)); err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "invalid api key",
			Code:  string(domainerror.ErrCodeInvalidAPIKey),
		})
		return
	}

	token, expiresAt, err := c.tokenService.GenerateToken(ctx.Request.Context(), req.ClientID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}
