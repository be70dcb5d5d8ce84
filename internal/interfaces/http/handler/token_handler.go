package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backoffice/internal/infrastructure/auth"
	"github.com/storefront/backoffice/internal/interfaces/http/dto"
	"github.com/storefront/backoffice/internal/interfaces/http/middleware"
)

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateToken(input auth.GenerateTokenInput) (*auth.Token, error)
}

// TokenHandler mints tokens for local development. It is only routed
// outside production.
type TokenHandler struct {
	BaseHandler
	issuer TokenIssuer
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(issuer TokenIssuer) *TokenHandler {
	return &TokenHandler{issuer: issuer}
}

// Mint signs a token for the requested user. Roles default to admin.
func (h *TokenHandler) Mint(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ttl, err := req.TTLDuration()
	if err != nil || ttl < 0 {
		h.BadRequest(c, "ttl must be a positive duration such as 30m or 12h")
		return
	}

	userID := uuid.New()
	if req.UserID != "" {
		userID = uuid.MustParse(req.UserID)
	}
	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{auth.RoleAdmin}
	}

	token, err := h.issuer.GenerateToken(auth.GenerateTokenInput{
		UserID:   userID,
		Username: req.Username,
		Roles:    roles,
		TTL:      ttl,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, token)
}
